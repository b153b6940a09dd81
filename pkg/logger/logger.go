package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New создает JSON-логгер. Если deviceID не пуст, он добавляется в каждую запись.
func New(logLevel, deviceID string) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})

	log.SetOutput(os.Stdout)

	// Уровень логирования
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Уровень по умолчанию, если передан некорректный
	}
	log.SetLevel(level)

	if deviceID != "" {
		log.AddHook(&deviceHook{deviceID: deviceID})
	}
	return log
}

// deviceHook помечает записи устройством: логи с нескольких узлов сети сводятся в одно место
type deviceHook struct {
	deviceID string
}

func (h *deviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *deviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["device_id"]; !ok {
		entry.Data["device_id"] = h.deviceID
	}
	return nil
}
