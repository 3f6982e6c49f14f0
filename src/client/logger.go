package client

import (
	"github.com/assetkid/gallery/src/utils/logger"

	"github.com/sirupsen/logrus"
)

// Resty logs are demoted to debug
type Logger struct {
	log *logrus.Entry
}

func NewLogger() (self *Logger) {
	self = new(Logger)
	self.log = logger.NewSublogger("client-resty")
	return
}

func (self *Logger) Errorf(format string, v ...interface{}) {
	self.log.Debugf(format, v...)
}

func (self *Logger) Warnf(format string, v ...interface{}) {
	self.log.Debugf(format, v...)
}

func (self *Logger) Debugf(format string, v ...interface{}) {
	self.log.Tracef(format, v...)
}
