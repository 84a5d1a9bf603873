package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// PartRepo catálogo de repuestos en memoria.
type PartRepo struct{ exec execFunc }

var _ repository.PartRepository = (*PartRepo)(nil)

func (r *PartRepo) Create(_ context.Context, p *entity.Part) error {
	return r.exec(true, func(d *data) error {
		if _, ok := d.parts[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := d.partCodes[p.Code]; ok {
			return domain.ErrDuplicate
		}
		d.parts[p.ID] = *p
		d.partCodes[p.Code] = p.ID
		return nil
	})
}

func (r *PartRepo) GetByID(_ context.Context, id string) (*entity.Part, error) {
	var out *entity.Part
	err := r.exec(false, func(d *data) error {
		if p, ok := d.parts[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PartRepo) GetByCode(_ context.Context, code string) (*entity.Part, error) {
	var out *entity.Part
	err := r.exec(false, func(d *data) error {
		if id, ok := d.partCodes[code]; ok {
			p := d.parts[id]
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PartRepo) List(_ context.Context, limit, offset int) ([]*entity.Part, error) {
	var out []*entity.Part
	err := r.exec(false, func(d *data) error {
		all := make([]entity.Part, 0, len(d.parts))
		for _, p := range d.parts {
			all = append(all, p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		from, to := page(len(all), limit, offset)
		for i := from; i < to; i++ {
			p := all[i]
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

// BalanceRepo saldos en memoria.
type BalanceRepo struct{ exec execFunc }

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

func (r *BalanceRepo) Get(_ context.Context, partID string) (*entity.Balance, error) {
	out := entity.NewBalance(partID)
	err := r.exec(false, func(d *data) error {
		if b, ok := d.balances[partID]; ok {
			*out = b
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de Run el bloqueo ya lo da el mutex del store; aquí solo se materializa la fila.
func (r *BalanceRepo) GetForUpdate(_ context.Context, partID string) (*entity.Balance, error) {
	out := entity.NewBalance(partID)
	err := r.exec(true, func(d *data) error {
		b, ok := d.balances[partID]
		if !ok {
			d.balances[partID] = *out
			return nil
		}
		*out = b
		return nil
	})
	return out, err
}

func (r *BalanceRepo) Save(_ context.Context, b *entity.Balance) error {
	return r.exec(true, func(d *data) error {
		d.balances[b.PartID] = *b
		return nil
	})
}

func (r *BalanceRepo) ListBelowMinimum(_ context.Context) ([]repository.BelowMinimumItem, error) {
	var out []repository.BelowMinimumItem
	err := r.exec(false, func(d *data) error {
		for _, p := range d.parts {
			if !p.MinStock.IsPositive() {
				continue
			}
			b, ok := d.balances[p.ID]
			if !ok {
				b = *entity.NewBalance(p.ID)
			}
			if b.Quantity.GreaterThan(p.MinStock) {
				continue
			}
			out = append(out, repository.BelowMinimumItem{
				PartID:    p.ID,
				Code:      p.Code,
				Name:      p.Name,
				Unit:      p.Unit,
				Quantity:  b.Quantity,
				MinStock:  p.MinStock,
				UnitPrice: p.UnitPrice,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		di := out[i].MinStock.Sub(out[i].Quantity)
		dj := out[j].MinStock.Sub(out[j].Quantity)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].Code < out[j].Code
	})
	return out, err
}

// MovementRepo libro de movimientos en memoria (solo inserción).
type MovementRepo struct{ exec execFunc }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.exec(true, func(d *data) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.exec(false, func(d *data) error {
		var matched []entity.Movement
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if f.PartID != "" && m.PartID != f.PartID {
				continue
			}
			if f.WorkOrderID != "" && m.WorkOrderID != f.WorkOrderID {
				continue
			}
			matched = append(matched, m)
		}
		from, to := page(len(matched), f.Limit, f.Offset)
		for i := from; i < to; i++ {
			m := matched[i]
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListByPartChronological(_ context.Context, partID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.exec(false, func(d *data) error {
		for _, m := range d.movements {
			if m.PartID == partID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

// InventorySessionRepo sesiones de inventario y sus líneas.
type InventorySessionRepo struct{ exec execFunc }

var _ repository.InventorySessionRepository = (*InventorySessionRepo)(nil)

func (r *InventorySessionRepo) Create(_ context.Context, s *entity.InventorySession) error {
	return r.exec(true, func(d *data) error {
		if _, ok := d.sessions[s.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := d.sessionRefs[s.Reference]; ok {
			return domain.ErrDuplicate
		}
		d.sessions[s.ID] = *s
		d.sessionRefs[s.Reference] = s.ID
		return nil
	})
}

func (r *InventorySessionRepo) GetByID(_ context.Context, id string) (*entity.InventorySession, error) {
	var out *entity.InventorySession
	err := r.exec(false, func(d *data) error {
		if s, ok := d.sessions[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *InventorySessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.GetByID(ctx, id)
}

func (r *InventorySessionRepo) Update(_ context.Context, s *entity.InventorySession) error {
	return r.exec(true, func(d *data) error {
		if _, ok := d.sessions[s.ID]; !ok {
			return domain.ErrNotFound
		}
		d.sessions[s.ID] = *s
		return nil
	})
}

func (r *InventorySessionRepo) List(_ context.Context, status entity.InventorySessionStatus, limit, offset int) ([]*entity.InventorySession, error) {
	var out []*entity.InventorySession
	err := r.exec(false, func(d *data) error {
		var all []entity.InventorySession
		for _, s := range d.sessions {
			if status != "" && s.Status != status {
				continue
			}
			all = append(all, s)
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].Date.Equal(all[j].Date) {
				return all[i].Date.After(all[j].Date)
			}
			return all[i].Reference < all[j].Reference
		})
		from, to := page(len(all), limit, offset)
		for i := from; i < to; i++ {
			s := all[i]
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

func (r *InventorySessionRepo) GetLine(_ context.Context, sessionID, partID string) (*entity.InventoryLine, error) {
	var out *entity.InventoryLine
	err := r.exec(false, func(d *data) error {
		if l, ok := d.lines[sessionID][partID]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *InventorySessionRepo) UpsertLine(_ context.Context, l *entity.InventoryLine) error {
	return r.exec(true, func(d *data) error {
		if _, ok := d.sessions[l.InventorySessionID]; !ok {
			return domain.ErrNotFound
		}
		byPart := d.lines[l.InventorySessionID]
		if byPart == nil {
			byPart = map[string]entity.InventoryLine{}
			d.lines[l.InventorySessionID] = byPart
		}
		if prev, ok := byPart[l.PartID]; ok {
			l.ID = prev.ID
		} else {
			d.lineOrder[l.InventorySessionID] = append(d.lineOrder[l.InventorySessionID], l.PartID)
		}
		byPart[l.PartID] = *l
		return nil
	})
}

func (r *InventorySessionRepo) ListLines(_ context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	var out []*entity.InventoryLine
	err := r.exec(false, func(d *data) error {
		for _, partID := range d.lineOrder[sessionID] {
			l := d.lines[sessionID][partID]
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

// QualityLogRepo bitácora de calidad en memoria.
type QualityLogRepo struct{ exec execFunc }

var _ repository.QualityLogRepository = (*QualityLogRepo)(nil)

func (r *QualityLogRepo) Create(_ context.Context, l *entity.QualityLog) error {
	return r.exec(true, func(d *data) error {
		d.qualityLogs = append(d.qualityLogs, *l)
		return nil
	})
}

func (r *QualityLogRepo) ListByPart(_ context.Context, partID string, limit, offset int) ([]*entity.QualityLog, error) {
	var out []*entity.QualityLog
	err := r.exec(false, func(d *data) error {
		var matched []entity.QualityLog
		for i := len(d.qualityLogs) - 1; i >= 0; i-- {
			if d.qualityLogs[i].PartID == partID {
				matched = append(matched, d.qualityLogs[i])
			}
		}
		from, to := page(len(matched), limit, offset)
		for i := from; i < to; i++ {
			l := matched[i]
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}
