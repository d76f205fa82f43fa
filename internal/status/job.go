package status

import "fmt"

var (
	// JobComplete matches run-to-completion resources that finished successfully.
	JobComplete *Check

	// JobFailed matches run-to-completion resources that exhausted their retries.
	JobFailed *Check
)

func init() {
	env, err := NewEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to create status CEL environment: %v", err))
	}
	JobComplete = mustParse(env, "jobComplete", "self.status.conditions.filter(c, c.type == 'Complete' && c.status == 'True')")
	JobFailed = mustParse(env, "jobFailed", "self.status.conditions.filter(c, c.type == 'Failed' && c.status == 'True')")
}

func mustParse(env *Env, name, expr string) *Check {
	check, err := ParseCheck(env, name, expr)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in status check %q: %v", name, err))
	}
	return check
}
