package common

import (
	"context"
	"fmt"
	"unicode"

	"github.com/sirupsen/logrus"
)

type ParrotContext struct {
	context.Context
	Cancel context.CancelFunc
}

type CodedError struct {
	Code    int
	Message string
	cause   error
}

func (e *CodedError) Error() string {
	return e.Message
}

func (e *CodedError) Unwrap() error {
	return e.cause
}

func NewError(code int, err error) *CodedError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	return &CodedError{
		Code:    code,
		Message: msg,
		cause:   err,
	}
}

var DataFolder = "data"

func NewLogger(sys string) *logrus.Entry {
	return logrus.WithField("sys", sys)
}

func SetupLogging(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logrus.SetLevel(parsed)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}

func TruncateText(text string, length int, breakWords bool) string {
	const wordBoundryTolerance = 10

	if length <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= length {
		return text
	}

	truncateIndex := length
	if !breakWords {
		for i := length; i > length-wordBoundryTolerance && i > 0; i-- {
			if unicode.IsSpace(runes[i-1]) || unicode.IsPunct(runes[i-1]) {
				truncateIndex = i - 1
				break
			}
		}
	}

	truncated := string(runes[:truncateIndex]) + "..."
	return truncated
}
