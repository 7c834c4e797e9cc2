package petsapi

// Listing statuses as stored by the server.
const (
	StatusActive       = "active"
	StatusWasFound     = "wasFound"
	StatusOnModeration = "onModeration"
	StatusArchive      = "archive"
)

var statusLabels = map[string]string{
	StatusActive:       "Active",
	StatusWasFound:     "Owner found",
	StatusOnModeration: "On moderation",
	StatusArchive:      "Archived",
}

// StatusLabel returns a display label for status. Unknown statuses are
// returned unchanged.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Editable reports whether the owner may still change a listing.
func Editable(status string) bool {
	return status == StatusActive || status == StatusOnModeration
}
