//    Copyright 2021 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/binkynet/ADCWorker/pkg/metrics"
)

const (
	subSystem = "sampler"
)

var (
	// Total number of successful samples per channel
	samplesTotal = metrics.MustRegisterCounterVec(subSystem,
		"samples_total",
		"Total number of successful samples per channel",
		"channel")
	// Total number of failed samples per channel and error kind
	sampleErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"sample_errors_total",
		"Total number of failed samples per channel and error kind",
		"channel", "kind")
	// Last sampled voltage per channel
	voltageGauge = metrics.MustRegisterGaugeVec(subSystem,
		"voltage",
		"Last sampled voltage per channel",
		"channel")
	// Last temperature per thermistor channel
	temperatureGauge = metrics.MustRegisterGaugeVec(subSystem,
		"temperature_celsius",
		"Last temperature per thermistor channel",
		"channel")
	// Duration of a conversion including polls
	sampleDuration = metrics.MustRegisterHistogramVec(subSystem,
		"sample_duration_seconds",
		"Duration of a conversion including polls",
		prometheus.ExponentialBuckets(0.002, 2, 8),
		"channel")
)
