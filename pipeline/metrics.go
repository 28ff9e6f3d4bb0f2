/*
 * metrics.go, part of cdft.
 *
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package pipeline

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

//Status labels for the molecule counter.
const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

//Metrics holds the prometheus collectors of a Runner.
type Metrics struct {
	Molecules     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
}

//NewMetrics creates the collectors and registers them in reg. If a collector
//is already registered in reg, the registered one is used.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	M := &Metrics{
		Molecules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cdft",
			Name:      "molecules_total",
			Help:      "Molecules handled by the pipeline, by final status.",
		}, []string{"status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cdft",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each stage of the processing of a molecule.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
	}
	if reg == nil {
		return M, nil
	}
	var are prometheus.AlreadyRegisteredError
	if err := reg.Register(M.Molecules); err != nil {
		if !errors.As(err, &are) {
			return nil, err
		}
		M.Molecules = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(M.StageDuration); err != nil {
		if !errors.As(err, &are) {
			return nil, err
		}
		M.StageDuration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return M, nil
}

func (M *Metrics) observe(stage string, d time.Duration) {
	if M == nil {
		return
	}
	M.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (M *Metrics) count(status string) {
	if M == nil {
		return
	}
	M.Molecules.WithLabelValues(status).Inc()
}
