package models

import "fmt"

const (
	SystemElectrical = "electrical"
	SystemAC         = "ac"
)

const (
	ShiftMorning = "Morning"
	ShiftEvening = "Evening"
	ShiftNight   = "Night"
)

// Checkpoint labels are fixed form data. Field keys are derived as
// "electrical_<n>" / "ac_<n>" with an optional "<key>_remarks" companion.
var ElectricalCheckpoints = []string{
	"Main Panel Power Supply ON",
	"Breakers and MCBs in Normal State",
	"No Alarm or Trip Indicators",
	"Indicator Lights Working",
	"Surge Protection Devices Status OK",
	"Earthing Checked",
	"Load Distribution Normal",
	"Manual Override Accessible & Safe",
	"Temperature of Panel Normal",
	"Panel Area Clean and Locked",
}

var ACCheckpoints = []string{
	"All Outdoor Units Operational",
	"Indoor Units Functioning in All Zones",
	"Temperature Set Points Verified",
	"No Abnormal Noise/Vibration in Units",
	"Air Filters Cleaned (Weekly)",
	"Indoor Unit Front Panel Cleaned",
	"Outdoor Unit Fins & Area Clean",
	"Remote/Touch Panel Display Working",
	"Remote Batteries Functional",
	"Remote/Touch Panel Settings Accessible",
	"Drain Pipe Free from Clogging",
	"Gas Pressure Levels Normal",
	"Power Supply Stable (No trip/fault)",
	"Control Wiring & Cabling Secure",
}

func ValidSystemType(systemType string) bool {
	return systemType == SystemElectrical || systemType == SystemAC
}

// Checkpoints returns the checkpoint labels for a system type, nil for an
// unknown type.
func Checkpoints(systemType string) []string {
	switch systemType {
	case SystemElectrical:
		return ElectricalCheckpoints
	case SystemAC:
		return ACCheckpoints
	}
	return nil
}

// ChecklistSchema returns the set of field keys a submission of the given
// system type may carry: the three header fields plus a status and remarks
// key per checkpoint.
func ChecklistSchema(systemType string) map[string]bool {
	schema := map[string]bool{
		"date":         true,
		"shift":        true,
		"operatorName": true,
	}
	for i := range Checkpoints(systemType) {
		key := fmt.Sprintf("%s_%d", systemType, i+1)
		schema[key] = true
		schema[key+"_remarks"] = true
	}
	return schema
}

// ValidateChecklist rejects submissions carrying keys outside the system
// type's schema.
func ValidateChecklist(systemType string, data ChecklistData) error {
	schema := ChecklistSchema(systemType)
	for key := range data {
		if !schema[key] {
			return fmt.Errorf("unknown checklist field %q for system type %q", key, systemType)
		}
	}
	return nil
}

// ChecklistSubmission is a parsed checklist form. Fields holds the full flat
// form, header fields included, exactly as submitted.
type ChecklistSubmission struct {
	Date         string `json:"date" binding:"required"`
	Shift        string `json:"shift" binding:"required,oneof=Morning Evening Night"`
	OperatorName string `json:"operatorName" binding:"required"`

	Fields ChecklistData `json:"-"`
}
