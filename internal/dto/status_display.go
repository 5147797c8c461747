package dto

import "github.com/noah-isme/gema-portfolio-api/internal/models"

// StatusDisplay is the label and badge colour clients render for a status.
type StatusDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusDisplays = map[models.ActivityStatus]StatusDisplay{
	models.ActivityStatusPending:          {Label: "Pending Review", Color: "yellow"},
	models.ActivityStatusApproved:         {Label: "Approved", Color: "green"},
	models.ActivityStatusRejected:         {Label: "Rejected", Color: "red"},
	models.ActivityStatusRevisionRequired: {Label: "Needs Revision", Color: "orange"},
}

// DisplayForStatus returns display metadata, falling back to the raw status.
func DisplayForStatus(status models.ActivityStatus) StatusDisplay {
	if display, ok := statusDisplays[status]; ok {
		return display
	}
	return StatusDisplay{Label: string(status), Color: "gray"}
}
