package manager

import (
	"flag"

	"k8s.io/client-go/rest"
)

type Options struct {
	Rest *rest.Config

	// Raw submits resources through the dynamic client instead of the typed client.
	Raw bool

	// DiscoveryMapping resolves resource paths through apiserver discovery in raw mode
	// rather than the built-in table of workload kinds.
	DiscoveryMapping bool

	qps   float64 // flags don't support float32, bind to this value and copy over to Rest.QPS during initialization
	burst int     // Rest is usually resolved after flags are parsed
}

func (o *Options) Bind(set *flag.FlagSet) {
	set.IntVar(&o.burst, "burst", 50, "apiserver client rate limiter burst configuration")
	set.Float64Var(&o.qps, "qps", 20, "Max requests per second to apiserver")
	set.BoolVar(&o.Raw, "raw", false, "Submit resources through the dynamic client as unstructured documents")
	set.BoolVar(&o.DiscoveryMapping, "discovery-mapping", false, "Resolve resource paths using apiserver discovery (only with -raw)")
}
