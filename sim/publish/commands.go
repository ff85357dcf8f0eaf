package publish

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Command asks for Event to be injected into Target at the current instant.
type Command struct {
	Target string `json:"target"`
	Event  string `json:"event"`
}

// Injector receives commands. The real-time runner implements it.
type Injector interface {
	InjectNow(target, event string) error
}

// ListenCommands subscribes to topic and injects every well-formed command
// into inj. Malformed or rejected commands are logged and dropped.
func ListenCommands(sub Subscriber, topic string, inj Injector) error {
	return sub.Subscribe(topic, func(payload []byte) {
		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			logrus.Warnf("malformed command on %s: %v", topic, err)
			return
		}
		if cmd.Target == "" || cmd.Event == "" {
			logrus.Warnf("incomplete command on %s: %q", topic, payload)
			return
		}
		if err := inj.InjectNow(cmd.Target, cmd.Event); err != nil {
			logrus.Warnf("command %s/%s rejected: %v", cmd.Target, cmd.Event, err)
			return
		}
		logrus.Debugf("command %s/%s injected", cmd.Target, cmd.Event)
	})
}
