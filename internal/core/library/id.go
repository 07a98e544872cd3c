package library

import "fmt"

// GenerateSavedID generates a saved-section ID from the current max number.
// The format is SAVED-XXX where XXX is a zero-padded 3-digit number.
func GenerateSavedID(currentMax int) string {
	return fmt.Sprintf("SAVED-%03d", currentMax+1)
}

// ParseSavedNumber extracts the numeric portion from a saved-section ID.
// Returns -1 if the ID format is invalid.
func ParseSavedNumber(id string) int {
	var num int
	_, err := fmt.Sscanf(id, "SAVED-%d", &num)
	if err != nil {
		return -1
	}
	return num
}
