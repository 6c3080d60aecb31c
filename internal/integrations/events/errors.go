package events

import "errors"

// ErrPublish возвращается, если событие не удалось отправить
var ErrPublish = errors.New("events: failed to publish")
