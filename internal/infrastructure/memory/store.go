package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// data estado completo del almacén. Las entidades se guardan por valor: nada de lo que sale del store
// comparte memoria con lo que queda dentro.
type data struct {
	parts       map[string]entity.Part
	partCodes   map[string]string // code -> id
	balances    map[string]entity.Balance
	movements   []entity.Movement // orden de inserción
	sessions    map[string]entity.InventorySession
	sessionRefs map[string]string                       // reference -> id
	lines       map[string]map[string]entity.InventoryLine // sessionID -> partID -> línea
	lineOrder   map[string][]string                     // sessionID -> partIDs en orden de alta
	qualityLogs []entity.QualityLog
}

func newData() *data {
	return &data{
		parts:       map[string]entity.Part{},
		partCodes:   map[string]string{},
		balances:    map[string]entity.Balance{},
		sessions:    map[string]entity.InventorySession{},
		sessionRefs: map[string]string{},
		lines:       map[string]map[string]entity.InventoryLine{},
		lineOrder:   map[string][]string{},
	}
}

// clone copia superficial de cada colección; suficiente porque los valores son structs inmutables
// (decimal, time y punteros a time que nunca se mutan en sitio).
func (d *data) clone() *data {
	c := newData()
	for k, v := range d.parts {
		c.parts[k] = v
	}
	for k, v := range d.partCodes {
		c.partCodes[k] = v
	}
	for k, v := range d.balances {
		c.balances[k] = v
	}
	c.movements = append(make([]entity.Movement, 0, len(d.movements)+1), d.movements...)
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	for k, v := range d.sessionRefs {
		c.sessionRefs[k] = v
	}
	for sid, byPart := range d.lines {
		m := make(map[string]entity.InventoryLine, len(byPart))
		for k, v := range byPart {
			m[k] = v
		}
		c.lines[sid] = m
	}
	for sid, order := range d.lineOrder {
		c.lineOrder[sid] = append([]string(nil), order...)
	}
	c.qualityLogs = append(make([]entity.QualityLog, 0, len(d.qualityLogs)+1), d.qualityLogs...)
	return c
}

// execFunc da acceso al estado. write indica si fn puede modificarlo.
type execFunc func(write bool, fn func(d *data) error) error

// Store almacén en proceso para pruebas y demos. Las transacciones trabajan sobre una copia del estado
// y se serializan con un único mutex: equivale a aislamiento SERIALIZABLE sin conflictos.
type Store struct {
	mu   sync.Mutex
	data *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newData()}
}

// exec fuera de transacción: cada escritura es su propia transacción de una sola operación.
func (s *Store) exec(write bool, fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !write {
		return fn(s.data)
	}
	next := s.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Repositories repositorios sin transacción (lecturas y altas sueltas).
func (s *Store) Repositories() ledger.Repositories {
	return repositoriesFor(s.exec)
}

// Run implementa ledger.TxRunner: fn trabaja sobre una copia que solo se publica si devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	txExec := func(_ bool, op func(d *data) error) error { return op(snapshot) }
	if err := fn(repositoriesFor(txExec)); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

var _ ledger.TxRunner = (*Store)(nil)

func repositoriesFor(exec execFunc) ledger.Repositories {
	return ledger.Repositories{
		Parts:       &PartRepo{exec: exec},
		Balances:    &BalanceRepo{exec: exec},
		Movements:   &MovementRepo{exec: exec},
		Sessions:    &InventorySessionRepo{exec: exec},
		QualityLogs: &QualityLogRepo{exec: exec},
	}
}

// page aplica limit/offset sobre n elementos y devuelve el rango [from, to).
func page(n, limit, offset int) (int, int) {
	if offset >= n {
		return n, n
	}
	to := n
	if limit > 0 && offset+limit < n {
		to = offset + limit
	}
	return offset, to
}
