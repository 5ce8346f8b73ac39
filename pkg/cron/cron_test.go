package cron

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
)

func TestScheduleSpecsParse(t *testing.T) {
	specs := []string{weeklyReportSpec, monthlyReportSpec, dailyRenewalSpec}
	for _, spec := range specs {
		_, err := cron.ParseStandard(spec)
		assert.NoError(t, err, spec)
	}
}
