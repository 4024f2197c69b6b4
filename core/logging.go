package core

import (
	"io"

	"github.com/sirupsen/logrus"
)

// logger is the package-level structured logger. It defaults to discarding
// output so library consumers who never call SetLogger see silence, matching
// the teacher's SetWalletLogger/SetSecurityLogger convention.
var logger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// SetLogger installs l as the logger used by the Manifest and Rotation
// engines. It is not safe to call concurrently with in-flight operations.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}

// fields is a convenience alias so call sites read a little less noisily.
type fields = logrus.Fields
