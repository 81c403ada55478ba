// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package taxonomy

// defaultKeywords is the built-in category table. Entries are normalized by
// New, so case and duplicates here do not matter.
var defaultKeywords = map[string][]string{
	"autos & vehicles": {
		"car", "automobile", "motorcycle", "truck", "suv", "sedan", "convertible", "coupe",
		"hatchback", "van", "minivan", "bus", "vehicle", "engine", "transmission", "driving",
		"roadtrip", "motorsport", "racing", "formula 1", "nascar", "drift", "rally", "gear",
		"brake", "tire", "mechanic", "oil change", "license", "insurance", "auto repair",
		"charging station", "fuel efficiency", "electric vehicle", "ev", "hybrid",
		"self-driving", "autonomous vehicle", "tesla", "toyota", "honda", "ford",
		"chevrolet", "bmw", "mercedes-benz", "audi", "volkswagen", "subaru", "jeep",
		"porsche", "lamborghini", "ferrari", "mitsubishi", "mazda", "kia", "hyundai",
		"jaguar", "land rover", "rolls-royce", "bentley", "ducati", "harley-davidson",
		"revzilla", "west marine", "jegs", "ecs tuning", "road & track", "#musclecar",
		"#racecar", "#drift", "#racing", "#offroad", "#revzilla", "#ecstuning",
		"#jegsperformance", "#carshow",
	},
	"comedy": {
		"comedy", "humor", "funny", "laugh", "jokes", "laughing", "stand-up", "sketch",
		"satire", "parody", "improv", "prank", "viral video", "dank meme", "spoof",
		"funny videos", "memes", "meme", "funnymemes", "lol", "laughter", "humorous",
		"#comedy", "#funny", "#memes", "#meme", "#funnymemes", "#lol", "#humor", "#jokes",
		"#prank", "#viral", "#dankmemes", "#standup", "#standupcomedy", "#lmao",
	},
	"education": {
		"education", "learning", "school", "college", "university", "classroom", "teacher",
		"student", "homework", "lecture", "exam", "degree", "scholarship", "tuition",
		"online learning", "e-learning", "mooc", "tutoring", "stem", "math", "science",
		"history", "literature", "language", "research", "academic", "curriculum", "course",
		"seminar", "tutorial", "homework help", "study tips",
	},
	"entertainment": {
		"entertainment", "celebrity", "celebrities", "pop culture", "hollywood", "bollywood",
		"movies", "film", "tv show", "reality tv", "music", "concert", "festival", "awards",
		"oscars", "grammy", "billboard", "pop star", "television", "talk show", "gossip",
		"red carpet", "premiere", "viral video", "netflix", "series", "actor", "actress",
		"director", "entertainment news", "paparazzi", "watch party", "standup special",
		"#celebrity", "#celebritygossip", "#entertainment", "#entertainmentnews",
		"#hollywood", "#bollywood", "#actor", "#actress", "#gossip", "content creator",
		"streamer", "tiktoker", "youtuber",
	},
	"film & animation": {
		"film", "movie", "cinema", "animation", "cartoon", "anime", "short film",
		"feature film", "indie film", "documentary", "hollywood movies", "bollywood movies",
		"pixar", "disney", "marvel", "dc comics", "star wars", "superhero movie",
		"movie trailer", "screenplay", "director", "producer", "film festival", "oscars",
		"cannes", "sundance", "visual effects", "cgi", "stop motion", "anime series",
		"manga", "film critic", "cinematography", "movie review",
	},
	"gaming": {
		"gaming", "video games", "gamer", "let's play", "walkthrough", "playthrough",
		"multiplayer", "esports", "streaming", "twitch", "gameplay", "online gaming",
		"first-person shooter", "fps", "strategy game", "rpg", "role-playing game",
		"simulator", "indie game", "retro gaming", "arcade", "board game", "puzzle game",
		"minecraft", "fortnite", "pubg", "apex legends", "valorant", "overwatch",
		"league of legends", "call of duty", "cyberpunk 2077", "grand theft auto", "gta",
		"assassin's creed", "zelda", "mario", "pokemon", "lol", "dota", "roblox",
		"mobile gaming", "vr gaming", "game night", "gamer life", "streamer", "#gaming",
		"#videogames", "#esports", "#fortnite", "#minecraft", "#pubg", "#valorant", "#gta",
		"#pokemon",
	},
	"howto & style": {
		"diy", "tutorial", "how to", "makeup", "beauty", "fashion", "style", "haircut",
		"hair styling", "skincare", "outfit", "fashion tips", "beauty tips", "life hacks",
		"home decor", "interior design", "gardening", "cooking", "recipe", "crafts",
		"handmade", "upcycle", "sewing", "crochet", "knitting", "painting",
		"makeup tutorial", "gardening tips", "clothing", "accessories", "#tutorial", "#diy",
		"#makeup", "#beauty", "#fashion", "#hair", "#skincare", "#style", "#homedecor",
		"#crafts", "#sewing",
	},
	"music": {
		"music", "song", "album", "artist", "band", "concert", "guitar", "piano", "drums",
		"bass", "lyrics", "melody", "hip-hop", "rap", "pop", "rock", "country", "classical",
		"jazz", "opera", "edm", "dj", "electronic", "hip hop", "rnb", "k-pop", "music video",
		"playlist", "spotify", "billboard", "grammy", "soundtrack", "mix", "remix", "cover",
		"beat", "studio", "live", "festival", "karaoke", "bandcamp", "soundcloud",
	},
	"news & politics": {
		"news", "politics", "election", "government", "government policy", "president",
		"prime minister", "congress", "senate", "legislation", "campaign", "vote",
		"democracy", "press", "journalism", "breaking news", "world news",
		"political debate", "foreign policy", "economy", "sanctions", "war", "peace talks",
		"climate policy", "supreme court", "public office", "opinion", "civil rights",
		"#politics", "#trump", "#news", "#election", "#congress", "#republican", "#democrat",
		"#government",
	},
	"nonprofits & activism": {
		"nonprofit", "charity", "donation", "fundraising", "social change", "volunteer",
		"community service", "awareness campaign", "fundraiser", "human rights",
		"civil rights", "social justice", "equality", "feminism", "blm", "climate change",
		"environment", "sustainability", "animal rights", "lgbt rights", "mental health",
		"poverty", "homelessness", "refugees", "renewable energy", "ngo", "protest", "march",
		"grassroots", "philanthropy", "#activism", "#humanrights", "#socialjustice",
		"#equality", "#nonprofit", "#blm", "#climatechange",
	},
	"people & blogs": {
		"vlog", "vlogger", "daily vlog", "storytime", "lifestyle", "blog", "blogger",
		"daily life", "personal vlog", "travel vlog", "family vlog", "challenge", "q&a",
		"get ready with me", "haul", "review", "asmr", "vlogging", "vlog squad", "#vlog",
		"#youtube", "#vlogger", "#youtuber", "#blogger", "#lifestyle", "streamer", "stream",
		"daily", "minimalism", "aesthetic", "home decor", "morning routine", "night routine",
		"cleaning", "organization", "productivity", "habits", "day in the life",
		"#lifestyle", "#vlog", "#dailyvlog", "#routine", "#aesthetic", "#minimalism",
	},
	"pets & animals": {
		"pets", "animals", "wildlife", "dog", "cat", "puppy", "kitten", "pet adoption",
		"pet rescue", "animal shelter", "veterinarian", "pet training", "pet care",
		"pet grooming", "dog park", "pet food", "bird", "fish", "reptile", "horse", "farm",
		"zoo", "aquarium", "cuteness", "animal lover", "#pets", "#animals", "#dog", "#cat",
		"#puppy", "#kitten", "#dogsofinstagram", "#catsofinstagram",
	},
	"science & technology": {
		"science", "technology", "ai", "artificial intelligence", "machine learning",
		"robotics", "astronomy", "space exploration", "astronaut", "nasa", "satellite",
		"quantum computing", "physics", "chemistry", "biology", "genetics", "biotech",
		"nanotechnology", "engineering", "computer science", "data science", "internet",
		"blockchain", "cryptocurrency", "cybersecurity", "software", "hardware",
		"programming", "5g", "iot", "virtual reality", "vr", "augmented reality", "ar",
		"spacex", "starlink", "mars rover", "climate science", "#ai", "#quantumcomputing",
		"#iot", "#5g", "tech", "technology", "gadgets", "smartphone", "android", "iphone",
		"apple", "samsung", "AI", "machine learning", "robot", "software", "hardware",
		"programming", "coding", "laptop", "PC", "gaming", "console", "vr", "ar", "#tech",
		"#innovation", "#AI", "#coding", "#gadgets", "#robotics",
	},
	"sports": {
		"sports", "football", "soccer", "basketball", "baseball", "hockey", "tennis",
		"cricket", "rugby", "golf", "running", "marathon", "gymnastics", "athletics",
		"swimming", "Olympics", "World Cup", "Super Bowl", "NFL", "NBA", "MLB", "NASCAR",
		"F1", "UFC", "MMA", "boxing", "wrestling", "track and field", "training", "workout",
		"fitness", "athlete", "team", "coach", "#sports", "#football", "#soccer",
		"#basketball", "#cricket", "#tennis", "#gym", "#training",
	},
	"travel & events": {
		"travel", "tourism", "vacation", "holiday", "beach", "mountains", "cruise",
		"road trip", "backpacking", "adventure", "journey", "tour", "itinerary", "flight",
		"hotel", "resort", "camping", "passport", "culture", "cuisine", "sightseeing",
		"landmark", "destination", "honeymoon", "wedding", "conference", "festival", "expo",
		"carnival", "Olympics", "WorldExpo", "film festival", "fashion week", "#travel",
		"#traveltuesday", "#vacation", "#adventure", "#explore",
	},
	"food & cooking": {
		"food", "cooking", "recipe", "kitchen", "meal", "chef", "baking", "restaurant",
		"dinner", "lunch", "breakfast", "snack", "dessert", "delicious", "yummy", "vegan",
		"bbq", "grill", "#food", "#cooking", "#recipe", "#foodie", "#yum", "#chef",
	},
	"art & design": {
		"art", "drawing", "painting", "design", "illustration", "sketch", "creative",
		"artist", "gallery", "exhibit", "graffiti", "digital art", "3D", "animation", "#art",
		"#drawing", "#painting", "#design", "#creative", "#artist",
	},
	"health & wellness": {
		"health", "wellness", "mental health", "meditation", "therapy", "selfcare",
		"fitness", "nutrition", "diet", "workout", "exercise", "yoga", "balance",
		"motivation", "sleep", "routine", "#health", "#wellness", "#mentalhealth",
		"#fitness", "#selfcare", "#mindfulness",
	},
	"business & finance": {
		"business", "startup", "entrepreneur", "finance", "investment", "stocks", "crypto",
		"bitcoin", "economy", "trading", "sales", "marketing", "real estate", "growth",
		"revenue", "money", "hustle", "pitch", "founder", "#business", "#startup",
		"#entrepreneur", "#money", "#investing", "#crypto",
	},
}
