// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin role
)

// EndpointSecurityConfig maps HTTP route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	"Health":               SecurityPublic,
	"Register":             SecurityPublic,
	"Login":                SecurityPublic,
	"ListTools":            SecurityPublic,
	"GetTool":              SecurityPublic,
	"ListToolsByOwner":     SecurityPublic,
	"CreateSupportRequest": SecurityPublic,

	// Orders and rentals - Access Protected
	"CreateOrder":        SecurityAccess,
	"GetOrder":           SecurityAccess,
	"CancelOrder":        SecurityAccess,
	"ListOrdersByUser":   SecurityAccess,
	"GetRental":          SecurityAccess,
	"UpdateRentalStatus": SecurityAccess,
	"CancelRental":       SecurityAccess,
	"ExtendRental":       SecurityAccess,
	"ListRentalsByUser":  SecurityAccess,
	"ListRentalsByTool":  SecurityAccess,

	// Payments and history - Access Protected
	"ListPaymentsByRental": SecurityAccess,
	"ListPaymentsByUser":   SecurityAccess,
	"ListHistoryByUser":    SecurityAccess,
	"ListHistoryByOrder":   SecurityAccess,

	// Tools - Access Protected
	"CreateTool":     SecurityAccess,
	"UpdateTool":     SecurityAccess,
	"DeactivateTool": SecurityAccess,

	// Admin
	"RetryCapture":         SecurityAdmin,
	"ListSupportRequests":  SecurityAdmin,
	"UpdateSupportRequest": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to access protection for unknown routes
	return SecurityAccess
}
