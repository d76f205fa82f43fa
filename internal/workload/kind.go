package workload

import "strings"

// Kind is the declared execution style of a component.
type Kind string

const (
	// KindTask runs to completion once.
	KindTask Kind = "Task"

	// KindReplicatedTask runs a fixed number of completions in parallel.
	KindReplicatedTask Kind = "ReplicatedTask"

	// KindServer is a long-running, replicated process fronted by a service.
	KindServer Kind = "Server"

	// KindSingleton is a server that never runs more than one replica.
	KindSingleton Kind = "Singleton"

	// KindWorker is a long-running, replicated process without a network endpoint.
	KindWorker Kind = "Worker"

	// KindSingletonWorker is a worker that never runs more than one replica.
	KindSingletonWorker Kind = "SingletonWorker"
)

// KindPrefix qualifies workload types declared by schematics, e.g. "core.oam.dev/v1alpha1.Task".
const KindPrefix = "core.oam.dev/v1alpha1."

var kinds = map[string]Kind{
	string(KindTask):            KindTask,
	string(KindReplicatedTask):  KindReplicatedTask,
	string(KindServer):          KindServer,
	string(KindSingleton):       KindSingleton,
	string(KindWorker):          KindWorker,
	string(KindSingletonWorker): KindSingletonWorker,

	// Names used by older schematics
	"SingletonTask":     KindTask,
	"ReplicatedServer":  KindServer,
	"ReplicatedService": KindServer,
	"SingletonServer":   KindSingleton,
	"SingletonService":  KindSingleton,
	"ReplicatedWorker":  KindWorker,
}

// ParseKind resolves a declared workload type, with or without KindPrefix.
// Unknown types return an *UnsupportedKindError.
func ParseKind(declared string) (Kind, error) {
	if k, ok := kinds[strings.TrimPrefix(declared, KindPrefix)]; ok {
		return k, nil
	}
	return "", &UnsupportedKindError{Declared: declared}
}

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindTask, KindReplicatedTask, KindServer, KindSingleton, KindWorker, KindSingletonWorker}
}
