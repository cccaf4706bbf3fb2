package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/repository"
)

// 内存版 Repository 实现，行为对齐真实存储：
//   - 未命中返回 gorm.ErrRecordNotFound
//   - 分配存储模拟部分唯一索引（同车同日 active 唯一），
//     冲突返回 gorm.ErrDuplicatedKey，与 TranslateError 行为一致
//   - mockAllocationRepo 持锁，支持并发用例

// ── 员工 ──

type mockEmployeeRepo struct {
	employees map[string]model.Employee
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, employeeID string) (*model.Employee, error) {
	e, ok := m.employees[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (m *mockEmployeeRepo) List(_ context.Context, offset, limit int) ([]model.Employee, int64, error) {
	all := make([]model.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EmployeeID < all[j].EmployeeID })
	return pageSlice(all, offset, limit), int64(len(all)), nil
}

// ── 车辆 ──

type mockVehicleRepo struct {
	vehicles map[string]model.Vehicle
}

func (m *mockVehicleRepo) GetByID(_ context.Context, vehicleID string) (*model.Vehicle, error) {
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (m *mockVehicleRepo) List(_ context.Context, offset, limit int) ([]model.Vehicle, int64, error) {
	all := make([]model.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].VehicleID < all[j].VehicleID })
	return pageSlice(all, offset, limit), int64(len(all)), nil
}

// ── 司机 ──

type mockDriverRepo struct {
	drivers map[string]model.Driver
}

func (m *mockDriverRepo) GetByID(_ context.Context, driverID string) (*model.Driver, error) {
	d, ok := m.drivers[driverID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (m *mockDriverRepo) GetByAssignedVehicle(_ context.Context, vehicleID string) (*model.Driver, error) {
	for _, d := range m.drivers {
		if d.AssignedVehicleID == vehicleID {
			driver := d
			return &driver, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDriverRepo) List(_ context.Context, offset, limit int) ([]model.Driver, int64, error) {
	all := make([]model.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DriverID < all[j].DriverID })
	return pageSlice(all, offset, limit), int64(len(all)), nil
}

// ── 分配 ──

type mockAllocationRepo struct {
	mu          sync.Mutex
	allocations map[string]model.Allocation
}

func newMockAllocationRepo() *mockAllocationRepo {
	return &mockAllocationRepo{allocations: make(map[string]model.Allocation)}
}

func (m *mockAllocationRepo) Create(_ context.Context, allocation *model.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if allocation.Status == model.AllocationStatusActive &&
		m.hasActiveLocked(allocation.VehicleID, allocation.AllocationDate, "") {
		return gorm.ErrDuplicatedKey
	}

	if allocation.AllocationID == "" {
		allocation.AllocationID = uuid.NewString()
	}
	m.allocations[allocation.AllocationID] = *allocation
	return nil
}

func (m *mockAllocationRepo) GetByID(_ context.Context, allocationID string) (*model.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.allocations[allocationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (m *mockAllocationRepo) Update(_ context.Context, allocation *model.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.allocations[allocation.AllocationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	if allocation.Status == model.AllocationStatusActive &&
		m.hasActiveLocked(existing.VehicleID, allocation.AllocationDate, allocation.AllocationID) {
		return gorm.ErrDuplicatedKey
	}

	existing.AllocationDate = allocation.AllocationDate
	existing.Status = allocation.Status
	existing.UpdatedAt = allocation.UpdatedAt
	m.allocations[allocation.AllocationID] = existing
	return nil
}

func (m *mockAllocationRepo) Delete(_ context.Context, allocationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.allocations[allocationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.allocations, allocationID)
	return nil
}

func (m *mockAllocationRepo) FindActiveByVehicleAndDate(_ context.Context, vehicleID string, date time.Time, excludeID string) (*model.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.allocations {
		if a.VehicleID == vehicleID && a.AllocationDate.Equal(date) &&
			a.Status == model.AllocationStatusActive && a.AllocationID != excludeID {
			found := a
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllocationRepo) ListHistory(_ context.Context, filter *repository.HistoryFilter) ([]model.Allocation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]model.Allocation, 0, len(m.allocations))
	for _, a := range m.allocations {
		if filter.StartDate != nil && filter.EndDate != nil {
			if a.AllocationDate.Before(*filter.StartDate) || a.AllocationDate.After(*filter.EndDate) {
				continue
			}
		}
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.VehicleID != "" && a.VehicleID != filter.VehicleID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AllocationDate.After(matched[j].AllocationDate)
	})

	total := int64(len(matched))
	return pageSlice(matched, filter.Skip, filter.Limit), total, nil
}

// hasActiveLocked 同车同日是否已有 active 记录（调用方持锁）
func (m *mockAllocationRepo) hasActiveLocked(vehicleID string, date time.Time, excludeID string) bool {
	for _, a := range m.allocations {
		if a.VehicleID == vehicleID && a.AllocationDate.Equal(date) &&
			a.Status == model.AllocationStatusActive && a.AllocationID != excludeID {
			return true
		}
	}
	return false
}

// ── 测试夹具 ──

func pageSlice[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

// newTestRepo 预置两名员工、三辆车（一辆维修中）、两名司机
// VEH00003 维修中且未绑定司机
func newTestRepo() *repository.Repository {
	return &repository.Repository{
		Employee: &mockEmployeeRepo{employees: map[string]model.Employee{
			"EMP0001": {EmployeeID: "EMP0001", Name: "张伟", Department: "市场部", ContactNumber: "13800000001"},
			"EMP0002": {EmployeeID: "EMP0002", Name: "李娜", Department: "研发部", ContactNumber: "13800000002"},
		}},
		Vehicle: &mockVehicleRepo{vehicles: map[string]model.Vehicle{
			"VEH00001": {VehicleID: "VEH00001", VehicleName: "别克GL8", Status: model.VehicleStatusAvailable},
			"VEH00002": {VehicleID: "VEH00002", VehicleName: "丰田凯美瑞", Status: model.VehicleStatusAvailable},
			"VEH00003": {VehicleID: "VEH00003", VehicleName: "大众帕萨特", Status: model.VehicleStatusMaintenance},
		}},
		Driver: &mockDriverRepo{drivers: map[string]model.Driver{
			"DRV0001": {DriverID: "DRV0001", Name: "王强", ContactNumber: "13900000001", LicenseNumber: "L10000001", AssignedVehicleID: "VEH00001"},
			"DRV0002": {DriverID: "DRV0002", Name: "赵磊", ContactNumber: "13900000002", LicenseNumber: "L10000002", AssignedVehicleID: "VEH00002"},
		}},
		Allocation: newMockAllocationRepo(),
	}
}

// futureDate 距今 n 天的日期字符串
func futureDate(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format("2006-01-02")
}
