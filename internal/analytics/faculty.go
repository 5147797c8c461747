package analytics

import (
	"sort"
	"strings"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

const topStudentLimit = 5

// DepartmentStat aggregates students and approved work for one department.
type DepartmentStat struct {
	Department string `json:"department"`
	Students   int    `json:"students"`
	Activities int    `json:"activities"`
	Points     int    `json:"points"`
}

// CategoryShare counts approved activities for one category.
type CategoryShare struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StudentRank is one row of the top-students table.
type StudentRank struct {
	StudentID  string `json:"student_id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Activities int    `json:"activities"`
	Points     int    `json:"points"`
}

// FacultyOverview is the cross-student view used by reviewers.
type FacultyOverview struct {
	TotalStudents   int              `json:"total_students"`
	TotalActivities int              `json:"total_activities"`
	ApprovalRate    float64          `json:"approval_rate"`
	AveragePoints   float64          `json:"average_points"`
	Departments     []DepartmentStat `json:"departments"`
	Categories      []CategoryShare  `json:"categories"`
	TopStudents     []StudentRank    `json:"top_students"`
}

// CrossStudent aggregates all activities against the student directory.
// Departments come from the profiles in the order first seen, blank ones
// reported as Unknown. Activities whose owner maps to no listed department
// are left out of the department table but still count everywhere else.
func CrossStudent(activities []models.Activity, profiles []models.StudentProfile) FacultyOverview {
	byID := make(map[string]models.StudentProfile, len(profiles))
	departments := make([]DepartmentStat, 0)
	deptIndex := map[string]int{}

	for _, profile := range profiles {
		byID[profile.ID] = profile
		dept := departmentOf(profile)
		i, ok := deptIndex[dept]
		if !ok {
			i = len(departments)
			deptIndex[dept] = i
			departments = append(departments, DepartmentStat{Department: dept})
		}
		departments[i].Students++
	}

	categories := make([]CategoryShare, 0)
	catIndex := map[string]int{}
	ranks := make([]StudentRank, 0)
	rankIndex := map[string]int{}

	approved := 0
	points := 0

	for _, activity := range activities {
		if !activity.IsApproved() {
			continue
		}
		approved++
		awarded := activity.AwardedPoints()
		points += awarded

		profile, known := byID[activity.StudentID]
		dept := UnknownLabel
		if known {
			dept = departmentOf(profile)
		}
		if i, ok := deptIndex[dept]; ok {
			departments[i].Activities++
			departments[i].Points += awarded
		}

		name := categoryName(activity)
		ci, ok := catIndex[name]
		if !ok {
			ci = len(categories)
			catIndex[name] = ci
			categories = append(categories, CategoryShare{Category: name})
		}
		categories[ci].Count++

		ri, ok := rankIndex[activity.StudentID]
		if !ok {
			ri = len(ranks)
			rankIndex[activity.StudentID] = ri
			fullName := UnknownLabel
			if known && strings.TrimSpace(profile.FullName) != "" {
				fullName = profile.FullName
			}
			ranks = append(ranks, StudentRank{
				StudentID:  activity.StudentID,
				FullName:   fullName,
				Department: dept,
			})
		}
		ranks[ri].Activities++
		ranks[ri].Points += awarded
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Points > ranks[j].Points })
	if len(ranks) > topStudentLimit {
		ranks = ranks[:topStudentLimit]
	}

	overview := FacultyOverview{
		TotalStudents:   len(profiles),
		TotalActivities: len(activities),
		Departments:     departments,
		Categories:      categories,
		TopStudents:     ranks,
	}
	if len(activities) > 0 {
		overview.ApprovalRate = float64(approved) / float64(len(activities)) * 100
	}
	if approved > 0 {
		overview.AveragePoints = float64(points) / float64(approved)
	}

	return overview
}

func departmentOf(profile models.StudentProfile) string {
	dept := strings.TrimSpace(profile.Department)
	if dept == "" {
		return UnknownLabel
	}
	return dept
}
