package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(adminCommandsTotal) }

var adminCommandsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_commands_total",
		Help: "Bot commands received, labeled by command and authorization result.",
	},
	[]string{"command", "status"}, // status: 'ok', 'denied', 'throttled', 'error', 'unknown'
)

func IncAdminCommand(command, status string) {
	adminCommandsTotal.WithLabelValues(norm(command), norm(status)).Inc()
}
