// Package permission holds the static role → page/feature table shared by the
// gateway guards and the API client. It performs no I/O and holds no mutable state.
package permission

import (
	"strings"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleHR        Role = "hr"
	RoleAdmin     Role = "admin"
)

// Features.
const (
	FeatureViewJobs            = "view_jobs"
	FeatureApplyJobs           = "apply_jobs"
	FeatureViewOwnApplications = "view_own_applications"
	FeatureManageProfile       = "manage_profile"
	FeatureUploadResume        = "upload_resume"
	FeatureSendMessages        = "send_messages"
	FeatureViewNotifications   = "view_notifications"

	FeatureManageJobs          = "manage_jobs"
	FeatureViewAllApplications = "view_all_applications"
	FeatureManageApplications  = "manage_applications"
	FeatureViewCandidates      = "view_candidates"
	FeatureSendNotifications   = "send_notifications"
	FeatureViewReports         = "view_reports"
	FeatureExportReports       = "export_reports"

	FeatureManageUsers       = "manage_users"
	FeatureManageRoles       = "manage_roles"
	FeatureManageDepartments = "manage_departments"
	FeatureSystemSettings    = "system_settings"
	FeatureViewAuditLogs     = "view_audit_logs"
)

var publicPages = []string{
	"/",
	"/jobs",
	"/jobs/[id]",
	"/about",
	"/contact",
	"/login",
	"/register",
	"/auth/login",
	"/auth/register",
	"/auth/forgot-password",
}

var candidatePages = []string{
	"/jobs/[id]/apply",
	"/profile",
	"/messages",
	"/notifications",
	"/candidate/dashboard",
	"/candidate/applications",
	"/candidate/applications/[id]",
	"/candidate/profile",
	"/candidate/resume",
}

var hrPages = []string{
	"/hr/dashboard",
	"/hr/jobs",
	"/hr/jobs/new",
	"/hr/jobs/[id]",
	"/hr/jobs/[id]/edit",
	"/hr/applications",
	"/hr/applications/[id]",
	"/hr/candidates",
	"/hr/candidates/[id]",
	"/hr/messages",
	"/hr/notifications",
	"/hr/reports",
}

var adminPages = []string{
	"/admin/dashboard",
	"/admin/users",
	"/admin/users/[id]",
	"/admin/departments",
	"/admin/settings",
	"/admin/system",
}

var candidateFeatures = []string{
	FeatureViewJobs,
	FeatureApplyJobs,
	FeatureViewOwnApplications,
	FeatureManageProfile,
	FeatureUploadResume,
	FeatureSendMessages,
	FeatureViewNotifications,
}

var hrFeatures = []string{
	FeatureManageJobs,
	FeatureViewAllApplications,
	FeatureManageApplications,
	FeatureViewCandidates,
	FeatureSendNotifications,
	FeatureViewReports,
	FeatureExportReports,
}

var adminFeatures = []string{
	FeatureManageUsers,
	FeatureManageRoles,
	FeatureManageDepartments,
	FeatureSystemSettings,
	FeatureViewAuditLogs,
}

type entry struct {
	pages    []string
	features []string
}

var table = buildTable()

// buildTable folds the lists additively: candidate ⊇ public, hr ⊇ candidate, admin ⊇ hr.
func buildTable() map[Role]entry {
	candidate := entry{
		pages:    concat(publicPages, candidatePages),
		features: concat(candidateFeatures),
	}
	hr := entry{
		pages:    concat(candidate.pages, hrPages),
		features: concat(candidate.features, hrFeatures),
	}
	admin := entry{
		pages:    concat(hr.pages, adminPages),
		features: concat(hr.features, adminFeatures),
	}
	return map[Role]entry{
		RoleCandidate: candidate,
		RoleHR:        hr,
		RoleAdmin:     admin,
	}
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// ParseRole maps a stored role value to a Role. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := table[r]; ok {
		return r, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := table[r]
	return ok
}

// HasPageAccess reports whether role may open pathname. A nil role is checked
// against the public list only.
func HasPageAccess(role *Role, pathname string) bool {
	pages := publicPages
	if role != nil {
		e, ok := table[*role]
		if !ok {
			return false
		}
		pages = e.pages
	}

	segments := splitPath(pathname)
	for _, pattern := range pages {
		if matchSegments(splitPath(pattern), segments) {
			return true
		}
	}
	return false
}

// HasFeatureAccess is a membership test; a nil role always fails.
func HasFeatureAccess(role *Role, feature string) bool {
	if role == nil {
		return false
	}
	e, ok := table[*role]
	if !ok {
		return false
	}
	for _, f := range e.features {
		if f == feature {
			return true
		}
	}
	return false
}

// Can is the value-receiver shorthand for HasFeatureAccess.
func (r Role) Can(feature string) bool {
	return HasFeatureAccess(&r, feature)
}

func PagesFor(role Role) []string {
	return append([]string(nil), table[role].pages...)
}

func FeaturesFor(role Role) []string {
	return append([]string(nil), table[role].features...)
}

func PublicPages() []string {
	return append([]string(nil), publicPages...)
}

func splitPath(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	parts := strings.Split(p, "/")
	segments := parts[:0]
	for _, s := range parts {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if isParam(seg) {
			continue
		}
		if seg != path[i] {
			return false
		}
	}
	return true
}

func isParam(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]")
}
