package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReminderScheduler runs SendDailyReminders on the given cron
// expression (e.g. "0 8 * * *"). The returned cron can be stopped on
// shutdown.
func StartReminderScheduler(svc *Service, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, svc.SendDailyReminders); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// SendDailyReminders logs every appointment coming up in the next week.
// Reminder failures are never fatal to the server.
func (s *Service) SendDailyReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	upcoming, err := s.GetUpcoming(ctx, "")
	if err != nil {
		s.log.WithError(err).Error("reminder run failed")
		return
	}
	for _, a := range upcoming {
		s.log.WithFields(logrus.Fields{
			"appointmentId": a.ID,
			"patientId":     a.PatientID,
			"doctorName":    a.DoctorName,
			"date":          a.Date,
			"time":          a.Time,
		}).Info("upcoming appointment reminder")
	}
	s.log.WithField("count", len(upcoming)).Info("reminder run complete")
}
