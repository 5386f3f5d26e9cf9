package resume

import (
	"strings"
	"unicode"
)

const FallbackIcon = "circle"

// skillIcons maps normalized skill names to icon keys understood by the frontend.
var skillIcons = map[string]string{
	"go":          "si-go",
	"golang":      "si-go",
	"javascript":  "fa-js",
	"js":          "fa-js",
	"typescript":  "si-typescript",
	"ts":          "si-typescript",
	"react":       "fa-react",
	"reactjs":     "fa-react",
	"nextjs":      "si-nextdotjs",
	"node":        "fa-node",
	"nodejs":      "fa-node",
	"vue":         "fa-vuejs",
	"vuejs":       "fa-vuejs",
	"angular":     "fa-angular",
	"python":      "fa-python",
	"java":        "fa-java",
	"php":         "fa-php",
	"rust":        "fa-rust",
	"html":        "fa-html5",
	"html5":       "fa-html5",
	"css":         "fa-css3",
	"css3":        "fa-css3",
	"sass":        "fa-sass",
	"tailwind":    "si-tailwindcss",
	"tailwindcss": "si-tailwindcss",
	"docker":      "fa-docker",
	"kubernetes":  "si-kubernetes",
	"k8s":         "si-kubernetes",
	"postgres":    "si-postgresql",
	"postgresql":  "si-postgresql",
	"mysql":       "si-mysql",
	"mongodb":     "si-mongodb",
	"redis":       "si-redis",
	"supabase":    "si-supabase",
	"graphql":     "si-graphql",
	"git":         "fa-git-alt",
	"github":      "fa-github",
	"linux":       "fa-linux",
	"aws":         "fa-aws",
	"figma":       "fa-figma",
}

func normalizeSkillName(name string) string {
	normalized := strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	return strings.ToLower(normalized)
}

// SkillIcon resolves the icon key for a skill name, falling back to FallbackIcon.
func SkillIcon(name string) string {
	if icon, ok := skillIcons[normalizeSkillName(name)]; ok {
		return icon
	}
	return FallbackIcon
}
