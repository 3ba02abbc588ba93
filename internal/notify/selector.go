package notify

import (
	"time"

	"teachtime/internal/models"
)

// DefaultToleranceMinutes is the window around a user's reminder time
// within which a scheduled run picks the user up.
const DefaultToleranceMinutes = 5

// ReminderDue reports whether a configured reminder time falls within the
// tolerance window of now. The hour must match exactly and the minute is
// compared without wrapping across the hour boundary: a reminder time of
// 08:58 does not match 09:02. This mirrors the behavior the deployed system
// always had; cron cadence is aligned with the window instead.
func ReminderDue(reminderTime models.ReminderTime, now time.Time, toleranceMinutes int) bool {
	if reminderTime.Hour != now.Hour() {
		return false
	}
	minute := now.Minute()
	return reminderTime.Minute >= minute-toleranceMinutes &&
		reminderTime.Minute <= minute+toleranceMinutes
}

// DueUsers returns the subset of users whose reminder time is due at now.
// users and prefs are parallel slices; order of the result is not
// significant. Pure, no side effects.
func DueUsers(users []models.User, prefs []models.NotificationPreferences, now time.Time, toleranceMinutes int) []models.User {
	if toleranceMinutes <= 0 {
		toleranceMinutes = DefaultToleranceMinutes
	}

	var due []models.User
	for i, u := range users {
		if i >= len(prefs) {
			break
		}
		if ReminderDue(prefs[i].ReminderTime, now, toleranceMinutes) {
			due = append(due, u)
		}
	}
	return due
}
