package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/skillsenselab/callbridge/internal/component"
	"github.com/skillsenselab/callbridge/internal/di"
	"github.com/skillsenselab/callbridge/internal/logger"
)

// InfrastructureInfo describes one infrastructure component for display.
type InfrastructureInfo struct {
	Name    string
	Type    string // e.g. "server", "events", "registry"
	Details string
	Port    int
	Healthy bool
}

// RouteInfo describes one registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// ServiceInfo describes one DI registration.
type ServiceInfo struct {
	Key         string
	Mode        string // "eager", "lazy", "singleton"
	Initialized bool
}

// Summary collects and displays what came up during bootstrap. Everything it
// shows is discovered from the component registry and the DI container, so
// services never report to it by hand.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo
	services        []ServiceInfo
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName:    serviceName,
		version:        version,
		infrastructure: make([]InfrastructureInfo, 0),
		routes:         make([]RouteInfo, 0),
		services:       make([]ServiceInfo, 0),
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// collect walks the registry and container and rebuilds the display data.
// Components describe themselves through the optional Describable and
// RouteProvider interfaces.
func (s *Summary) collect(registry *component.Registry, container di.Container) {
	s.infrastructure = s.infrastructure[:0]
	s.routes = s.routes[:0]
	s.services = s.services[:0]

	if registry != nil {
		ctx := context.Background()
		for _, c := range registry.All() {
			if d, ok := c.(component.Describable); ok {
				desc := d.Describe()
				name := desc.Name
				if name == "" {
					name = c.Name()
				}
				h := c.Health(ctx)
				s.infrastructure = append(s.infrastructure, InfrastructureInfo{
					Name:    name,
					Type:    desc.Type,
					Details: desc.Details,
					Port:    desc.Port,
					Healthy: h.Status == component.StatusHealthy,
				})
			}
			if rp, ok := c.(component.RouteProvider); ok {
				for _, r := range rp.Routes() {
					s.routes = append(s.routes, RouteInfo{
						Method:  r.Method,
						Path:    r.Path,
						Handler: r.Handler,
					})
				}
			}
		}
	}

	if container != nil {
		regs := container.Registrations()
		sort.Slice(regs, func(i, j int) bool { return regs[i].Key < regs[j].Key })
		for _, reg := range regs {
			s.services = append(s.services, ServiceInfo{
				Key:         reg.Key,
				Mode:        modeName(reg.Mode),
				Initialized: reg.Initialized,
			})
		}
	}
}

// DisplaySummary prints the startup summary, including a live health check
// over the registry.
func (s *Summary) DisplaySummary(registry *component.Registry, container di.Container, log *logger.Logger) {
	s.collect(registry, container)

	fmt.Printf("\n")
	fmt.Printf("🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Printf("📊 Infrastructure\n")
		for i, inf := range s.infrastructure {
			icon := statusIcon("active", inf.Healthy)
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Printf("   %s %s %s: %s\n", treePrefix(i, len(s.infrastructure)), icon, inf.Name, details)
		}
		fmt.Printf("\n")
	}

	if len(s.services) > 0 {
		fmt.Printf("⚙️  Services (%d)\n", len(s.services))
		for i, svc := range s.services {
			status := "lazy"
			if svc.Initialized {
				status = "active"
			}
			icon := statusIcon(status, true)
			fmt.Printf("   %s %s %s (%s)\n", treePrefix(i, len(s.services)), icon, svc.Key, svc.Mode)
		}
		fmt.Printf("\n")
	}

	if len(s.routes) > 0 {
		fmt.Printf("🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Printf("   %s %s%-7s\033[0m %s → %s\n",
				treePrefix(i, len(s.routes)), methodColor(r.Method), r.Method, r.Path, r.Handler)
		}
		fmt.Printf("\n")
	}

	if registry != nil {
		results := registry.HealthAll(context.Background())
		if len(results) > 0 {
			fmt.Printf("🏥 Health Check\n")
			healthy := 0
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = fmt.Sprintf(" (%s)", h.Message)
				}
				fmt.Printf("   %s %s %s: %s%s\n",
					treePrefix(i, len(results)), healthStatusIcon(h.Status), h.Name,
					strings.ToLower(string(h.Status)), msg)
				if h.Status == component.StatusHealthy {
					healthy++
				}
			}
			fmt.Printf("\n")
			if healthy == len(results) {
				fmt.Printf("✅ All components healthy (%d/%d)\n", healthy, len(results))
			} else {
				fmt.Printf("⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(results))
				if log != nil {
					log.Warn("Startup completed with unhealthy components", map[string]interface{}{
						"healthy": healthy,
						"total":   len(results),
					})
				}
			}
		} else {
			fmt.Printf("   └── No components registered\n")
		}
	}

	fmt.Printf("\n")
}

// treePrefix returns the box-drawing prefix for item i of n.
func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(status string, healthy bool) string {
	if !healthy {
		return "❌"
	}
	switch status {
	case "active", "initialized", "connected", "healthy":
		return "✅"
	case "lazy":
		return "⚡"
	case "inactive", "disabled":
		return "⏸️"
	case "error", "failed":
		return "❌"
	default:
		return "⚠️"
	}
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}

func modeName(m di.RegistrationMode) string {
	switch m {
	case di.Eager:
		return "eager"
	case di.Lazy:
		return "lazy"
	case di.Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// methodColor returns the ANSI color for an HTTP method, reset with \033[0m.
func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return "\033[32m"
	case http.MethodPost:
		return "\033[36m"
	case http.MethodPut:
		return "\033[33m"
	case http.MethodPatch:
		return "\033[35m"
	case http.MethodDelete:
		return "\033[31m"
	case http.MethodHead, http.MethodOptions:
		return "\033[34m"
	default:
		return "\033[37m"
	}
}
