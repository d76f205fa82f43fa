package manager

import (
	"flag"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"

	"github.com/Azure/instigator/internal/apply"
)

func TestNewScheme(t *testing.T) {
	scheme, err := NewScheme()
	require.NoError(t, err)

	for _, obj := range []runtime.Object{&batchv1.Job{}, &appsv1.Deployment{}, &corev1.Service{}, &corev1.Pod{}} {
		gvks, _, err := scheme.ObjectKinds(obj)
		require.NoError(t, err)
		assert.Len(t, gvks, 1)
	}
	assert.True(t, scheme.IsGroupRegistered("batch"))
	assert.True(t, scheme.IsGroupRegistered("apps"))
	assert.True(t, scheme.IsGroupRegistered(""))
}

func TestOptionsBind(t *testing.T) {
	opts := &Options{}
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	opts.Bind(set)
	require.NoError(t, set.Parse([]string{"-qps", "5", "-burst", "7", "-raw"}))

	assert.Equal(t, 7, opts.burst)
	assert.Equal(t, 5.0, opts.qps)
	assert.True(t, opts.Raw)
	assert.False(t, opts.DiscoveryMapping)
}

func TestNewTyped(t *testing.T) {
	opts := &Options{Rest: &rest.Config{Host: "https://127.0.0.1:6443"}, qps: 3, burst: 9}
	cli, err := New(testr.New(t), opts)
	require.NoError(t, err)
	assert.IsType(t, &apply.Typed{}, cli)
	assert.Equal(t, float32(3), opts.Rest.QPS)
	assert.Equal(t, 9, opts.Rest.Burst)
}

func TestNewRaw(t *testing.T) {
	opts := &Options{Rest: &rest.Config{Host: "https://127.0.0.1:6443"}, Raw: true}
	cli, err := New(testr.New(t), opts)
	require.NoError(t, err)
	assert.IsType(t, &apply.Raw{}, cli)
}

func TestNewMissingRest(t *testing.T) {
	_, err := New(testr.New(t), &Options{})
	assert.Error(t, err)
}
