package logging_test

import (
	"testing"

	"github.com/2beens/liftlog/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, logging.GetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, logging.GetLevel("DEBUG"))
	assert.Equal(t, logrus.ErrorLevel, logging.GetLevel("error"))
	assert.Equal(t, logrus.WarnLevel, logging.GetLevel("warn"))

	// anything unknown logs everything
	assert.Equal(t, logrus.TraceLevel, logging.GetLevel(""))
	assert.Equal(t, logrus.TraceLevel, logging.GetLevel("verbose"))
}
