package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics tracks enrollment and nomination outcomes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AgentsEnrolled    prometheus.Counter
	UsersCreated      prometheus.Counter
	CandidatesNamed   prometheus.Counter
	StatusChanges     *prometheus.CounterVec
	VoterMarks        *prometheus.CounterVec
	RolledBack        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers the enrollment metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		AgentsEnrolled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "electoral_agents_enrolled_total",
			Help: "Agent enrollments committed, including in-place re-enrollments",
		}),
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "electoral_users_created_total",
			Help: "Users created by an enrollment flow",
		}),
		CandidatesNamed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "electoral_candidates_nominated_total",
			Help: "Candidate nominations committed",
		}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "electoral_nomination_status_changes_total",
			Help: "Nomination status transitions by target status",
		}, []string{"status"}),
		VoterMarks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "electoral_voter_marks_total",
			Help: "Voter marks written or undone",
		}, []string{"action"}),
		RolledBack: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "electoral_enrollment_rollbacks_total",
			Help: "Enrollment transactions rolled back, by operation",
		}, []string{"operation"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "electoral_enrollment_duration_seconds",
			Help:    "Duration of enrollment operations",
			Buckets: durationBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncAgentEnrolled(newUser bool) {
	if m == nil {
		return
	}
	m.AgentsEnrolled.Inc()
	if newUser {
		m.UsersCreated.Inc()
	}
}

func (m *Metrics) IncCandidateNominated(newUser bool) {
	if m == nil {
		return
	}
	m.CandidatesNamed.Inc()
	if newUser {
		m.UsersCreated.Inc()
	}
}

func (m *Metrics) IncStatusChange(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) IncVoterMark(action string) {
	if m == nil {
		return
	}
	m.VoterMarks.WithLabelValues(action).Inc()
}

func (m *Metrics) IncRollback(operation string) {
	if m == nil {
		return
	}
	m.RolledBack.WithLabelValues(operation).Inc()
}

// ObserveOperation records the duration of operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
