package acquisition_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"acquisition_desk/internal/domain"
	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/value"
	"acquisition_desk/pkg/errcodes"
)

// memoryVehicles mimics the unique constraint of the vehicles table.
type memoryVehicles struct {
	mu       sync.Mutex
	rows     []entity.Vehicle
	taken    map[value.StockNumber]struct{}
	stealing int
}

func newMemoryVehicles() *memoryVehicles {
	return &memoryVehicles{taken: make(map[value.StockNumber]struct{})}
}

// stealNext makes the next n inserts lose their stock number to a writer
// outside the service, as another replica would.
func (m *memoryVehicles) stealNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stealing = n
}

func (m *memoryVehicles) Create(_ context.Context, vehicle *entity.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stealing > 0 {
		m.stealing--
		m.taken[vehicle.StockNumber] = struct{}{}
	}

	if _, ok := m.taken[vehicle.StockNumber]; ok {
		return domain.WrapError(errors.New("duplicate key"), errcodes.AllocationConflict, "stock number already allocated")
	}

	m.taken[vehicle.StockNumber] = struct{}{}
	vehicle.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *vehicle)

	return nil
}

func (m *memoryVehicles) StockNumbersWithPrefix(_ context.Context, prefix string) ([]value.StockNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []value.StockNumber
	for n := range m.taken {
		if strings.HasPrefix(n.String(), prefix) {
			result = append(result, n)
		}
	}

	return result, nil
}

func (m *memoryVehicles) GetByStockNumber(_ context.Context, stockNumber value.StockNumber) (*entity.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.rows {
		if m.rows[i].StockNumber == stockNumber {
			v := m.rows[i]
			return &v, nil
		}
	}

	return nil, domain.NewError(errcodes.VehicleNotFound, "vehicle not found")
}

func (m *memoryVehicles) List(_ context.Context, limit, offset int) ([]entity.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if offset >= len(m.rows) {
		return nil, nil
	}

	end := min(offset+limit, len(m.rows))

	return append([]entity.Vehicle(nil), m.rows[offset:end]...), nil
}

func (m *memoryVehicles) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.rows), nil
}

func (m *memoryVehicles) UpdateEvaluations(_ context.Context, vehicles []entity.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range vehicles {
		for i := range m.rows {
			if m.rows[i].StockNumber == v.StockNumber {
				m.rows[i].Evaluation = v.Evaluation
			}
		}
	}

	return nil
}

type memorySequences struct {
	mu   sync.Mutex
	last map[string]int
}

func (m *memorySequences) Next(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.last == nil {
		m.last = make(map[string]int)
	}

	m.last[prefix]++

	return m.last[prefix], nil
}

type recordingQueue struct {
	mu       sync.Mutex
	vehicles []entity.Vehicle
	err      error
}

func (q *recordingQueue) EnqueueReview(_ context.Context, vehicle entity.Vehicle) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.err != nil {
		return q.err
	}

	q.vehicles = append(q.vehicles, vehicle)

	return nil
}

func (q *recordingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.vehicles)
}
