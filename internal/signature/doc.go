// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package signature implements the profile signature engine: tag extraction
from bios, category inference, matching-tag ranking and the adaptive
behavioral-tag rule.

Every function is deterministic over its inputs. The Engine only wraps the
taxonomy table it matches against.

Adaptive rule:

	category_test[c] = max(0, category_test[c] + weight(action))
	category_test[c] >= 5  ->  c joins behavioral_tags
	category_test[c] <  2  ->  c leaves behavioral_tags

Weights are view=1, react=2, repost=2, share=3, skip=-2. The band between 2
and 4 keeps the current membership so a single skip does not undo a streak
of views.
*/
package signature
