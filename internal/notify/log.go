package notify

import "log"

// LogNotifier writes fired reminders to the process log. It is the fallback
// when no delivery channel is configured or authorization fails.
type LogNotifier struct{}

func (LogNotifier) Notify(taskID uint, title string) {
	log.Printf("[reminder] task %d due: %s", taskID, title)
}
