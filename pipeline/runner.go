/*
 * runner.go, part of cdft.
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
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rmera/cdft"
)

//Sink receives the results of the processed molecules.
//Write can be called concurrently.
type Sink interface {
	Write(res *Result) error
}

//Runner processes batches of requests concurrently. The zero value
//works, with no logging, metrics or output.
type Runner struct {
	Workers int //molecules processed at the same time. <1 means runtime.NumCPU()
	Logger  *zap.Logger
	Metrics *Metrics
	Sink    Sink
}

func (R *Runner) logger() *zap.Logger {
	if R.Logger == nil {
		return zap.NewNop()
	}
	return R.Logger
}

//Run processes all the requests, in no particular order, and returns their
//results in the order of the requests. Errors in one molecule are logged
//and stored in its result, and don't affect the others. The only error
//returned is that of the context, in which case the results of the molecules
//not processed are nil.
func (R *Runner) Run(ctx context.Context, reqs []Request) ([]*Result, error) {
	workers := R.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	results := make([]*Result, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	log := R.logger()
	log.Info("starting batch", zap.Int("molecules", len(reqs)), zap.Int("workers", workers))
	for i, req := range reqs {
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = R.one(req)
			return nil
		})
	}
	err := eg.Wait()
	log.Info("batch finished", zap.Error(err))
	return results, err
}

//one processes and writes a single request.
func (R *Runner) one(req Request) *Result {
	log := R.logger().With(zap.String("request", req.ID), zap.String("molecule", req.Name),
		zap.Stringer("approximation", req.Options.Approx))
	res, err := process(req, R.Metrics.observe)
	for _, w := range res.Warnings {
		log.Warn("non-critical error", zap.String("stage", w.Stage), zap.Error(w.Err))
	}
	switch {
	case res.Skipped:
		log.Info("skipped empty molecule")
		R.Metrics.count(StatusSkipped)
		return res
	case cdft.IsCritical(err):
		log.Error("processing failed", zap.Error(err))
		R.Metrics.count(StatusFailed)
		return res
	}
	if R.Sink != nil {
		if err := R.write(res); err != nil {
			log.Error("writing results failed", zap.Error(err))
			res.Err = &StageError{Stage: StageWrite, Err: err}
			R.Metrics.count(StatusFailed)
			return res
		}
	}
	if res.Global != nil {
		log.Info("molecule processed", zap.Float64("hardness", res.Global.Hardness),
			zap.Float64("chemical_potential", res.Global.ChemicalPotential))
	}
	R.Metrics.count(StatusProcessed)
	return res
}

func (R *Runner) write(res *Result) error {
	start := time.Now()
	err := R.Sink.Write(res)
	R.Metrics.observe(StageWrite, time.Since(start))
	return err
}
