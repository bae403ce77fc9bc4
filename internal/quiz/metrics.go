package quiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quizzesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prepdesk_quizzes_started_total",
		Help: "Quiz sessions started, by subject label.",
	}, []string{"subject"})

	quizzesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prepdesk_quizzes_submitted_total",
		Help: "Quiz sessions scored, by subject label.",
	}, []string{"subject"})

	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prepdesk_sessions_expired_total",
		Help: "Sessions evicted without ever being submitted.",
	})
)
