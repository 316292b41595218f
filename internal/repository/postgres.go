package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/refayetSiam/SpareHub/internal/domain"
)

// PostgresRepository is the production FleetRepository backed by Postgres.
//
// Buses are stored document-shaped: the owned components and maintenance
// items live as JSONB columns on the bus row, so a bus and everything it
// owns is read and written as one record. Work orders and history are
// relational rows.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgres creates a PostgresRepository on top of an open database
// handle. The caller owns the handle's lifecycle.
func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ FleetRepository = (*PostgresRepository)(nil)

// =============================================================================
// Buses
// =============================================================================

const busColumns = `id, vehicle_number, type, status, garage_id, current_km,
	registration_date, last_maintenance_date, estimated_active_date,
	coordinates, components, maintenance_items`

func (r *PostgresRepository) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	const op = "repository.list_buses"

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+busColumns+` FROM buses ORDER BY vehicle_number`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query buses")
	}
	defer rows.Close()

	var buses []domain.Bus
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan bus")
		}
		buses = append(buses, *bus)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to iterate buses")
	}
	return buses, nil
}

func (r *PostgresRepository) GetBus(ctx context.Context, id uuid.UUID) (*domain.Bus, error) {
	const op = "repository.get_bus"

	row := r.db.QueryRowContext(ctx,
		`SELECT `+busColumns+` FROM buses WHERE id = $1`, id)
	bus, err := scanBus(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "bus", id.String())
		}
		return nil, domain.Internal(err, op, "failed to get bus")
	}
	return bus, nil
}

func (r *PostgresRepository) SaveBus(ctx context.Context, bus *domain.Bus) error {
	const op = "repository.save_bus"

	res, err := execSaveBus(ctx, r.db, bus)
	if err != nil {
		return domain.Internal(err, op, "failed to save bus")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Internal(err, op, "failed to check save result")
	}
	if n == 0 {
		return domain.NotFound(op, "bus", bus.ID.String())
	}
	return nil
}

// execer covers both *sql.DB and *sql.Tx so the same statements serve
// standalone saves and the completion transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execSaveBus(ctx context.Context, ex execer, bus *domain.Bus) (sql.Result, error) {
	components, err := json.Marshal(bus.Components)
	if err != nil {
		return nil, fmt.Errorf("marshal components: %w", err)
	}
	items, err := json.Marshal(bus.MaintenanceItems)
	if err != nil {
		return nil, fmt.Errorf("marshal maintenance items: %w", err)
	}

	return ex.ExecContext(ctx, `
		UPDATE buses SET
			vehicle_number = $2,
			type = $3,
			status = $4,
			garage_id = $5,
			current_km = $6,
			registration_date = $7,
			last_maintenance_date = $8,
			estimated_active_date = $9,
			coordinates = $10,
			components = $11,
			maintenance_items = $12,
			updated_at = now()
		WHERE id = $1`,
		bus.ID,
		bus.VehicleNumber,
		bus.Type,
		bus.Status,
		bus.GarageID,
		bus.CurrentKm,
		bus.RegistrationDate,
		bus.LastMaintenanceDate,
		bus.EstimatedActiveDate,
		coordinatesToJSON(bus.Coordinates),
		components,
		items,
	)
}

// CreateBus inserts a new bus record. Used by data ingestion, not by the
// maintenance core itself.
func (r *PostgresRepository) CreateBus(ctx context.Context, bus *domain.Bus) error {
	const op = "repository.create_bus"

	components, err := json.Marshal(bus.Components)
	if err != nil {
		return domain.Internal(err, op, "failed to marshal components")
	}
	items, err := json.Marshal(bus.MaintenanceItems)
	if err != nil {
		return domain.Internal(err, op, "failed to marshal maintenance items")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO buses (
			id, vehicle_number, type, status, garage_id, current_km,
			registration_date, last_maintenance_date, estimated_active_date,
			coordinates, components, maintenance_items
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		bus.ID,
		bus.VehicleNumber,
		bus.Type,
		bus.Status,
		bus.GarageID,
		bus.CurrentKm,
		bus.RegistrationDate,
		bus.LastMaintenanceDate,
		bus.EstimatedActiveDate,
		coordinatesToJSON(bus.Coordinates),
		components,
		items,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to insert bus")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBus(row rowScanner) (*domain.Bus, error) {
	var (
		bus           domain.Bus
		status        string
		estActive     sql.NullTime
		coordinates   pqtype.NullRawMessage
		componentsRaw []byte
		itemsRaw      []byte
	)

	err := row.Scan(
		&bus.ID,
		&bus.VehicleNumber,
		&bus.Type,
		&status,
		&bus.GarageID,
		&bus.CurrentKm,
		&bus.RegistrationDate,
		&bus.LastMaintenanceDate,
		&estActive,
		&coordinates,
		&componentsRaw,
		&itemsRaw,
	)
	if err != nil {
		return nil, err
	}

	// Legacy status spellings are normalized once, at this boundary.
	bus.Status, err = domain.ParseBusStatus(status)
	if err != nil {
		return nil, err
	}

	if estActive.Valid {
		t := estActive.Time
		bus.EstimatedActiveDate = &t
	}
	if coordinates.Valid {
		var c domain.Coordinates
		if err := json.Unmarshal(coordinates.RawMessage, &c); err != nil {
			return nil, fmt.Errorf("unmarshal coordinates: %w", err)
		}
		bus.Coordinates = &c
	}
	if err := json.Unmarshal(componentsRaw, &bus.Components); err != nil {
		return nil, fmt.Errorf("unmarshal components: %w", err)
	}
	if err := json.Unmarshal(itemsRaw, &bus.MaintenanceItems); err != nil {
		return nil, fmt.Errorf("unmarshal maintenance items: %w", err)
	}
	return &bus, nil
}

func coordinatesToJSON(c *domain.Coordinates) pqtype.NullRawMessage {
	if c == nil {
		return pqtype.NullRawMessage{}
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}

// =============================================================================
// Work Orders
// =============================================================================

const workOrderColumns = `id, bus_id, garage_id, title, description,
	component_types, priority, status, created_at, scheduled_date, due_date,
	completed_date, estimated_cost, actual_cost, assigned_mechanic, notes,
	auto_generated`

func (r *PostgresRepository) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	const op = "repository.list_work_orders"
	return r.queryWorkOrders(ctx, op,
		`SELECT `+workOrderColumns+` FROM work_orders ORDER BY created_at DESC, id`)
}

func (r *PostgresRepository) ListWorkOrdersForBus(ctx context.Context, busID uuid.UUID) ([]domain.WorkOrder, error) {
	const op = "repository.list_work_orders_for_bus"
	return r.queryWorkOrders(ctx, op,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE bus_id = $1 ORDER BY created_at DESC, id`,
		busID)
}

func (r *PostgresRepository) queryWorkOrders(ctx context.Context, op, query string, args ...any) ([]domain.WorkOrder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query work orders")
	}
	defer rows.Close()

	var orders []domain.WorkOrder
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan work order")
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to iterate work orders")
	}
	return orders, nil
}

func (r *PostgresRepository) GetWorkOrder(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	const op = "repository.get_work_order"

	row := r.db.QueryRowContext(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id)
	order, err := scanWorkOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "work order", id.String())
		}
		return nil, domain.Internal(err, op, "failed to get work order")
	}
	return order, nil
}

func (r *PostgresRepository) CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) error {
	const op = "repository.create_work_order"

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO work_orders (
			id, bus_id, garage_id, title, description, component_types,
			priority, status, created_at, scheduled_date, due_date,
			completed_date, estimated_cost, actual_cost, assigned_mechanic,
			notes, auto_generated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		order.ID,
		order.BusID,
		order.GarageID,
		order.Title,
		order.Description,
		pq.Array(order.ComponentTypes),
		order.Priority,
		order.Status,
		order.CreatedAt,
		order.ScheduledDate,
		order.DueDate,
		order.CompletedDate,
		order.EstimatedCost,
		order.ActualCost,
		order.AssignedMechanic,
		order.Notes,
		order.AutoGenerated,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to insert work order")
	}
	return nil
}

func (r *PostgresRepository) SaveWorkOrder(ctx context.Context, order *domain.WorkOrder) error {
	const op = "repository.save_work_order"

	res, err := execSaveWorkOrder(ctx, r.db, order)
	if err != nil {
		return domain.Internal(err, op, "failed to save work order")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Internal(err, op, "failed to check save result")
	}
	if n == 0 {
		return domain.NotFound(op, "work order", order.ID.String())
	}
	return nil
}

func execSaveWorkOrder(ctx context.Context, ex execer, order *domain.WorkOrder) (sql.Result, error) {
	return ex.ExecContext(ctx, `
		UPDATE work_orders SET
			title = $2,
			description = $3,
			component_types = $4,
			priority = $5,
			status = $6,
			scheduled_date = $7,
			due_date = $8,
			completed_date = $9,
			estimated_cost = $10,
			actual_cost = $11,
			assigned_mechanic = $12,
			notes = $13,
			updated_at = now()
		WHERE id = $1`,
		order.ID,
		order.Title,
		order.Description,
		pq.Array(order.ComponentTypes),
		order.Priority,
		order.Status,
		order.ScheduledDate,
		order.DueDate,
		order.CompletedDate,
		order.EstimatedCost,
		order.ActualCost,
		order.AssignedMechanic,
		order.Notes,
	)
}

func scanWorkOrder(row rowScanner) (*domain.WorkOrder, error) {
	var (
		order          domain.WorkOrder
		componentTypes []string
		scheduled      sql.NullTime
		due            sql.NullTime
		completed      sql.NullTime
		actualCost     sql.NullFloat64
	)

	err := row.Scan(
		&order.ID,
		&order.BusID,
		&order.GarageID,
		&order.Title,
		&order.Description,
		pq.Array(&componentTypes),
		&order.Priority,
		&order.Status,
		&order.CreatedAt,
		&scheduled,
		&due,
		&completed,
		&order.EstimatedCost,
		&actualCost,
		&order.AssignedMechanic,
		&order.Notes,
		&order.AutoGenerated,
	)
	if err != nil {
		return nil, err
	}

	order.ComponentTypes = componentTypes
	if scheduled.Valid {
		t := scheduled.Time
		order.ScheduledDate = &t
	}
	if due.Valid {
		t := due.Time
		order.DueDate = &t
	}
	if completed.Valid {
		t := completed.Time
		order.CompletedDate = &t
	}
	if actualCost.Valid {
		v := actualCost.Float64
		order.ActualCost = &v
	}
	return &order, nil
}

// =============================================================================
// Completion
// =============================================================================

// RecordCompletion writes the updated bus, the completed work order, and
// the history record in one transaction.
func (r *PostgresRepository) RecordCompletion(ctx context.Context, bus *domain.Bus, order *domain.WorkOrder, record *domain.MaintenanceRecord) error {
	const op = "repository.record_completion"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := execSaveBus(ctx, tx, bus); err != nil {
		return domain.Internal(err, op, "failed to save bus")
	}
	if _, err := execSaveWorkOrder(ctx, tx, order); err != nil {
		return domain.Internal(err, op, "failed to save work order")
	}
	if err := execInsertHistory(ctx, tx, record); err != nil {
		return domain.Internal(err, op, "failed to insert history record")
	}

	if err := tx.Commit(); err != nil {
		return domain.Internal(err, op, "failed to commit transaction")
	}
	return nil
}

// =============================================================================
// Maintenance History
// =============================================================================

func (r *PostgresRepository) AppendMaintenanceHistory(ctx context.Context, record *domain.MaintenanceRecord) error {
	const op = "repository.append_maintenance_history"

	if err := execInsertHistory(ctx, r.db, record); err != nil {
		return domain.Internal(err, op, "failed to insert history record")
	}
	return nil
}

func execInsertHistory(ctx context.Context, ex execer, record *domain.MaintenanceRecord) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO maintenance_history (
			id, bus_id, work_order_id, description, component_types,
			cost, mechanic, performed_at, km_at_service
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID,
		record.BusID,
		record.WorkOrderID,
		record.Description,
		pq.Array(record.ComponentTypes),
		record.Cost,
		record.Mechanic,
		record.PerformedAt,
		record.KmAtService,
	)
	return err
}

func (r *PostgresRepository) ListMaintenanceHistory(ctx context.Context, busID uuid.UUID) ([]domain.MaintenanceRecord, error) {
	const op = "repository.list_maintenance_history"

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, bus_id, work_order_id, description, component_types,
			cost, mechanic, performed_at, km_at_service
		FROM maintenance_history
		WHERE bus_id = $1
		ORDER BY performed_at DESC, id`, busID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query history")
	}
	defer rows.Close()

	var records []domain.MaintenanceRecord
	for rows.Next() {
		var (
			record         domain.MaintenanceRecord
			componentTypes []string
		)
		err := rows.Scan(
			&record.ID,
			&record.BusID,
			&record.WorkOrderID,
			&record.Description,
			pq.Array(&componentTypes),
			&record.Cost,
			&record.Mechanic,
			&record.PerformedAt,
			&record.KmAtService,
		)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan history record")
		}
		record.ComponentTypes = componentTypes
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to iterate history")
	}
	return records, nil
}

// =============================================================================
// Garages
// =============================================================================

func (r *PostgresRepository) ListGarages(ctx context.Context) ([]domain.Garage, error) {
	const op = "repository.list_garages"

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, capacity, address FROM garages ORDER BY id`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query garages")
	}
	defer rows.Close()

	var garages []domain.Garage
	for rows.Next() {
		var g domain.Garage
		if err := rows.Scan(&g.ID, &g.Name, &g.Location, &g.Capacity, &g.Address); err != nil {
			return nil, domain.Internal(err, op, "failed to scan garage")
		}
		garages = append(garages, g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to iterate garages")
	}
	return garages, nil
}

// Ping verifies database connectivity with a bounded timeout.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
