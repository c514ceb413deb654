package cmd

import (
	"time"

	"github.com/isometry/razorpay-interakt-app/internal/config"
	"github.com/isometry/razorpay-interakt-app/internal/helpers"
)

var svcEnvMapString = map[*string]boundEnvVar[string]{
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces in dual-stack mode)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
		Default:     helpers.Ptr("3000"),
	},
}

var svcEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations. Must exceed the order fetch timeout plus three Interakt call timeouts",
		Short:       helpers.Ptr("t"),
		Default:     helpers.Ptr(60 * time.Second),
	},
}
