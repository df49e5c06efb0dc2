// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bridge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the outcome label for successful round trips. Failures
// use the error kind (timeout, connection, protocol, remote, unexpected).
const OutcomeSuccess = "success"

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grasshopper_bridge_commands_total",
			Help: "Total commands sent to Grasshopper by command type and outcome",
		},
		[]string{"command", "outcome"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grasshopper_bridge_command_duration_seconds",
			Help:    "Round-trip latency of Grasshopper commands",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"command"},
	)
)

func observe(command string, env Envelope, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if !env.Success {
		outcome = string(env.Kind())
	}
	commandsTotal.WithLabelValues(command, outcome).Inc()
	commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}
