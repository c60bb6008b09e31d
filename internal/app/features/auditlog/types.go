// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/store/audit"
	"github.com/dalemusser/nurseryhome/internal/app/system/paging"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
)

const dateLayout = "2006-01-02"

// listItem is one audit event row.
type listItem struct {
	Timestamp time.Time
	Category  string
	EventType string
	EventName string
	ActorName string
	TargetID  string
	IP        string
	Success   bool
	Reason    string
	Details   map[string]string
}

type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	Categories []option
	EventTypes []option

	paging.Window
}

type option struct {
	Value string
	Label string
}

var categories = []option{
	{Value: audit.CategoryAuth, Label: "Đăng nhập"},
	{Value: audit.CategoryAdmin, Label: "Quản trị"},
}

var authEvents = []option{
	{Value: audit.EventLoginSuccess, Label: "Đăng nhập thành công"},
	{Value: audit.EventLoginFailedBadCredential, Label: "Sai thông tin đăng nhập"},
	{Value: audit.EventLoginFailedUserDisabled, Label: "Tài khoản bị vô hiệu hóa"},
	{Value: audit.EventLoginFailedLocked, Label: "Tài khoản bị khóa"},
	{Value: audit.EventLoginFailedUserNotFound, Label: "Không tìm thấy tài khoản"},
	{Value: audit.EventLoginFailedTimeout, Label: "Đăng nhập quá thời gian"},
	{Value: audit.EventLoginFailedRateLimit, Label: "Đăng nhập sai quá nhiều lần"},
	{Value: audit.EventLoginFailedBackend, Label: "Lỗi máy chủ khi đăng nhập"},
	{Value: audit.EventLogout, Label: "Đăng xuất"},
}

var adminEvents = []option{
	{Value: audit.EventUserApproved, Label: "Duyệt tài khoản"},
	{Value: audit.EventUserRejected, Label: "Từ chối tài khoản"},
	{Value: audit.EventUserCreated, Label: "Tạo tài khoản"},
	{Value: audit.EventUserUpdated, Label: "Cập nhật tài khoản"},
	{Value: audit.EventResidentApproved, Label: "Duyệt cư dân"},
	{Value: audit.EventResidentRejected, Label: "Từ chối cư dân"},
	{Value: audit.EventResidentDeleted, Label: "Xóa cư dân"},
	{Value: audit.EventCarePlanCreated, Label: "Tạo gói chăm sóc"},
	{Value: audit.EventMedicalRecordCreated, Label: "Thêm hồ sơ y tế"},
	{Value: audit.EventPhotoUploaded, Label: "Tải ảnh lên"},
	{Value: audit.EventFinancialReportCreated, Label: "Tạo báo cáo tài chính"},
}

// eventTypesFor returns the event types offered for category; all of them
// when no category is selected.
func eventTypesFor(category string) []option {
	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]option, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}

func eventLabel(eventType string) string {
	for _, o := range eventTypesFor("") {
		if o.Value == eventType {
			return o.Label
		}
	}
	return eventType
}
