package ai

// TagFamilies defines the valid namespaces for suggested tags.
// A suggester emits either "family:detail" or a bare family name;
// anything outside this list is rejected.
var TagFamilies = []string{
	"boot",
	"formation",
	"naked-boot",
	"pass",
	"personnel",
	"play-action",
	"rpo",
	"run",
	"screen",
	"situation",
	"trick",
}
