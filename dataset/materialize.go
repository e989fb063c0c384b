package dataset

import (
	"context"
	"time"

	"github.com/YuminosukeSato/tabframe/frame"
	"github.com/YuminosukeSato/tabframe/mapper"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/pkg/log"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/tensor"
)

// Materialize computes column statistics and encodes every typed column,
// grouping feature tensors by semantic type. On failure the dataset stays
// unmaterialized. Calling it again on a materialized dataset returns d
// without recomputing anything.
func (d *Dataset) Materialize(opts ...MaterializeOption) (*Dataset, error) {
	if d.state.IsMaterialized() {
		return d, nil
	}

	o := materializeOptions{device: tensor.CPU}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.device.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	n := d.Len()
	d.logger.Info("Materializing dataset",
		log.OperationKey, log.OperationMaterialize,
		log.SamplesKey, n,
		log.FeaturesKey, len(d.FeatCols()),
		log.TargetKey, d.targetCol,
		log.DeviceKey, o.device.String(),
	)

	colStats := make(map[string]stats.ColumnStats, d.colToStype.Len())
	mappers := make(map[string]mapper.TensorMapper, d.colToStype.Len())
	cols := make(map[stype.Type][]tensor.Tensor)
	names := make(map[stype.Type][]string)
	var y tensor.Tensor

	for _, ct := range d.colToStype.Pairs() {
		values, _ := d.table.Column(ct.Name)

		cs, m, out, err := d.materializeColumn(ct, values, o.device)
		if err != nil {
			err = errors.NewMaterializationError(ct.Name, ct.Type.String(), err)
			d.logger.Error("Materialization failed", err,
				log.OperationKey, log.OperationMaterialize,
				log.ColumnNameKey, ct.Name,
				log.StypeKey, ct.Type.String(),
			)
			return nil, err
		}
		colStats[ct.Name] = cs
		mappers[ct.Name] = m

		if ct.Name == d.targetCol {
			y = out
		} else {
			cols[ct.Type] = append(cols[ct.Type], out)
			names[ct.Type] = append(names[ct.Type], ct.Name)
		}

		if d.logger.Enabled(context.Background(), log.LevelDebug) {
			fields := []any{log.ColumnNameKey, ct.Name, log.StypeKey, ct.Type.String()}
			if counts, ok := cs.Counts(); ok {
				fields = append(fields, log.CategoriesKey, counts.Len())
			}
			d.logger.Debug("Materialized column", fields...)
		}
	}

	feat := make(map[stype.Type]tensor.Tensor, len(cols))
	for t, ts := range cols {
		stacked, err := tensor.Stack(ts)
		if err != nil {
			return nil, err
		}
		feat[t] = stacked
	}
	tf, err := frame.New(n, feat, names, y)
	if err != nil {
		return nil, err
	}

	d.colStats, d.mappers, d.frame = colStats, mappers, tf
	d.state.SetMaterialized()

	d.logger.Info("Materialization completed",
		log.OperationKey, log.OperationMaterialize,
		log.SamplesKey, n,
		log.FeaturesKey, tf.NumCols(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return d, nil
}

// materializeColumn computes the statistics, mapper and tensor of one column.
// Registered calculators and mappers may be user code, so panics are turned
// into errors.
func (d *Dataset) materializeColumn(ct stype.ColumnType, values []any, device tensor.Device) (stats.ColumnStats, mapper.TensorMapper, tensor.Tensor, error) {
	var cs stats.ColumnStats
	err := errors.SafeExecute("compute column statistics", func() error {
		var err error
		cs, err = d.statsReg.Compute(values, ct.Type)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}

	// Binary targets are indexed by sorted category value so that label 0/1
	// does not depend on which class is more frequent.
	if ct.Name == d.targetCol {
		if counts, ok := cs.Counts(); ok && counts.Len() == 2 {
			cs = cs.Clone()
			cs[stats.StatCount] = stats.SortLexicographic(counts)
		}
	}

	var (
		m   mapper.TensorMapper
		out tensor.Tensor
	)
	err = errors.SafeExecute("encode column", func() error {
		var err error
		if m, err = d.mapperReg.Build(ct.Name, ct.Type, cs); err != nil {
			return err
		}
		out, err = m.Forward(values, device)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if out.Len() != len(values) {
		return nil, nil, nil, errors.NewDimensionError("Forward", len(values), out.Len(), 0)
	}
	return cs, m, out, nil
}
