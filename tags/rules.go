package tags

import "regexp"

// rule binds one text pattern to the tag it announces.
type rule struct {
	pattern *regexp.Regexp
	tag     string
}

func mustRule(pattern, tag string) rule {
	return rule{pattern: regexp.MustCompile(pattern), tag: tag}
}

// ruleTable is matched against lowercased text. Order matters: specific
// patterns sit above the general ones they would otherwise shadow
// ("tunnel screen" above "screen"), and tags accumulate in table order.
var ruleTable = []rule{
	// Run concepts.
	mustRule(`counter`, "run:counter"),
	mustRule(`iso\b`, "run:iso"),
	mustRule(`power`, "run:power"),
	mustRule(`duo\b`, "run:duo"),
	mustRule(`zone read`, "run:zone-read"),
	mustRule(`inside zone|iz\b`, "run:inside-zone"),
	mustRule(`outside zone|oz\b`, "run:outside-zone"),
	mustRule(`toss`, "run:toss"),
	mustRule(`sweep`, "run:sweep"),
	mustRule(`draw\b`, "run:draw"),
	mustRule(`trap\b`, "run:trap"),
	mustRule(`pin.?&?.?pull`, "run:pin-pull"),
	mustRule(`midline`, "run:midline"),
	mustRule(`option`, "run:option"),
	mustRule(`wham`, "run:wham"),
	mustRule(`gt counter`, "run:gt-counter"),
	mustRule(`buck\b`, "run:buck"),

	// Pass concepts.
	mustRule(`flood`, "pass:flood"),
	mustRule(`dagger`, "pass:dagger"),
	mustRule(`mesh\b`, "pass:mesh"),
	mustRule(`shallow`, "pass:shallow"),
	mustRule(`four.?verts|4.?verts|verticals`, "pass:four-verts"),
	mustRule(`smash`, "pass:smash"),
	mustRule(`levels`, "pass:levels"),
	mustRule(`sail\b`, "pass:sail"),
	mustRule(`pylon`, "pass:pylon"),
	mustRule(`post.?wheel`, "pass:post-wheel"),
	mustRule(`curl\b`, "pass:curl"),
	mustRule(`snag\b`, "pass:snag"),
	mustRule(`stick\b`, "pass:stick"),
	mustRule(`choice\b`, "pass:choice"),
	mustRule(`scissors`, "pass:scissors"),
	mustRule(`corner\b`, "pass:corner"),
	mustRule(`wheel\b`, "pass:wheel"),
	mustRule(`leak\b`, "pass:te-leak"),

	// Play action family.
	mustRule(`pa\b|play.?action`, "play-action"),
	mustRule(`boot\b`, "boot"),
	mustRule(`naked\b`, "naked-boot"),

	// Screens.
	mustRule(`tunnel\s+screen`, "screen:tunnel"),
	mustRule(`slip\s+screen`, "screen:slip"),
	mustRule(`swing\s+screen`, "screen:swing"),
	mustRule(`filter\s+screen`, "screen:filter"),
	mustRule(`screen`, "screen"),

	// RPO.
	mustRule(`rpo\b`, "rpo"),

	// Trick plays.
	mustRule(`flea\s*flicker`, "trick:flea-flicker"),
	mustRule(`hook\s*(?:&|and)?\s*ladder`, "trick:hook-ladder"),
	mustRule(`reverse`, "trick:reverse"),
	mustRule(`philly\s*special`, "trick:philly-special"),
	mustRule(`fake\s*punt`, "trick:fake-punt"),
	mustRule(`trick`, "trick"),

	// Situations.
	mustRule(`red\s*zone`, "situation:red-zone"),
	mustRule(`goal\s*line|1st\s*&\s*goal|2nd\s*&\s*goal|3rd\s*&\s*goal`, "situation:goal-line"),
	mustRule(`3rd\s*(?:&|and)\s*(?:long|short|\d+)`, "situation:3rd-down"),
	mustRule(`4th\s*(?:&|and)\s*\d+`, "situation:4th-down"),
	mustRule(`two.?minute`, "situation:two-minute"),

	// Formations.
	mustRule(`empty\b`, "formation:empty"),
	mustRule(`trips\b`, "formation:trips"),
	mustRule(`bunch\b`, "formation:bunch"),
	mustRule(`quads\b`, "formation:quads"),
	mustRule(`cluster`, "formation:cluster"),
	mustRule(`unbalanced`, "formation:unbalanced"),
	mustRule(`tackle\s*over`, "formation:tackle-over"),
	mustRule(`4.?strong|four.?strong`, "formation:four-strong"),

	// Personnel groupings.
	mustRule(`11p\b|11\s*personnel`, "personnel:11"),
	mustRule(`12p\b|12\s*personnel`, "personnel:12"),
	mustRule(`13p\b|13\s*personnel`, "personnel:13"),
	mustRule(`21p\b|21\s*personnel`, "personnel:21"),
	mustRule(`22p\b|22\s*personnel`, "personnel:22"),
}
