package service

import (
	"bytes"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	testSubscriber = strings.Repeat("ab", 32)
	testSignature  = strings.Repeat("0f", 128)
	testPorts      = Ports{Location: 5555, Incident: 5556}
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}
