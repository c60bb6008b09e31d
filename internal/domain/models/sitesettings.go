// internal/domain/models/sitesettings.go
package models

// DefaultSiteName is shown in page headers.
const DefaultSiteName = "Nursery Home"
