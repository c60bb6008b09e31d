// internal/app/features/users/types.go
package users

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

type roleOption struct {
	Value string
	Label string
}

var roleOptions = []roleOption{
	{models.RoleAdmin, "Quản trị viên"},
	{models.RoleStaff, "Nhân viên"},
	{models.RoleFamily, "Người nhà"},
}

type statusOption struct {
	Value string
	Label string
}

var statusOptions = []statusOption{
	{models.UserActive, "Đang hoạt động"},
	{models.UserPending, "Chờ duyệt"},
	{models.UserInactive, "Ngưng hoạt động"},
	{models.UserSuspended, "Tạm khóa"},
}

type formData struct {
	formutil.Base

	ID       string
	Creating bool
	Form     inputval.UserForm
	Roles    []roleOption
	Statuses []statusOption
}

type roleGroup struct {
	Role  string
	Label string
	Users []models.User
}

type listData struct {
	viewdata.BaseVM

	Groups []roleGroup
}
