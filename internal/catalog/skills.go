package catalog

// SkillArea buckets individual skills for the portfolio skills section.
type SkillArea string

const (
	SkillAreaTechnical  SkillArea = "technical"
	SkillAreaLeadership SkillArea = "leadership"
	SkillAreaCreative   SkillArea = "creative"
	SkillAreaAnalytical SkillArea = "analytical"
)

// SkillsByCategory lists the skills an approved activity in a category demonstrates.
var SkillsByCategory = map[string][]string{
	"Academic Excellence": {"Research", "Critical Thinking", "Problem Solving"},
	"Leadership":          {"Team Management", "Communication", "Decision Making"},
	"Community Service":   {"Social Awareness", "Empathy", "Project Management"},
	"Sports & Recreation": {"Teamwork", "Discipline", "Physical Fitness"},
	"Cultural Activities": {"Creativity", "Cultural Awareness", "Artistic Expression"},
	"Technical Skills":    {"Programming", "Technical Analysis", "Innovation"},
	"Entrepreneurship":    {"Business Development", "Strategic Thinking", "Risk Management"},
}

// SkillAreas assigns skills to an area. Skills missing here are analytical.
var SkillAreas = map[string]SkillArea{
	"Programming":         SkillAreaTechnical,
	"Technical Analysis":  SkillAreaTechnical,
	"Innovation":          SkillAreaTechnical,
	"Team Management":     SkillAreaLeadership,
	"Communication":       SkillAreaLeadership,
	"Decision Making":     SkillAreaLeadership,
	"Project Management":  SkillAreaLeadership,
	"Creativity":          SkillAreaCreative,
	"Artistic Expression": SkillAreaCreative,
	"Cultural Awareness":  SkillAreaCreative,
	"Research":            SkillAreaAnalytical,
	"Critical Thinking":   SkillAreaAnalytical,
	"Problem Solving":     SkillAreaAnalytical,
	"Strategic Thinking":  SkillAreaAnalytical,
}

// AreaForSkill returns the skill area for a skill name.
func AreaForSkill(skill string) SkillArea {
	if area, ok := SkillAreas[skill]; ok {
		return area
	}
	return SkillAreaAnalytical
}
