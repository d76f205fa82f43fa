package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

func TestParseOwnerReference(t *testing.T) {
	ref, err := ParseOwnerReference("apiVersion=core.oam.dev/v1alpha1,kind=ApplicationConfiguration,name=app,uid=1234,controller=true")
	require.NoError(t, err)
	assert.Equal(t, metav1.OwnerReference{
		APIVersion:         "core.oam.dev/v1alpha1",
		Kind:               "ApplicationConfiguration",
		Name:               "app",
		UID:                "1234",
		Controller:         ptr.To(true),
		BlockOwnerDeletion: ptr.To(true),
	}, ref)

	ref, err = ParseOwnerReference("apiVersion=v1,kind=ConfigMap,name=cm,uid=5678,controller=false")
	require.NoError(t, err)
	assert.Nil(t, ref.Controller)
}

func TestParseOwnerReferenceInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"apiVersion=v1,kind=ConfigMap,name=cm",
		"apiVersion=v1,kind=ConfigMap,name=cm,uid=1,controller=maybe",
		"apiVersion=v1,kind=ConfigMap,name=cm,uid=1,color=blue",
	} {
		_, err := ParseOwnerReference(input)
		assert.Error(t, err, input)
	}
}

func TestFlagValues(t *testing.T) {
	owners := OwnerReferences{}
	params := Params{}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Var(&owners, "owner", "")
	set.Var(params, "param", "")
	require.NoError(t, set.Parse([]string{
		"-owner", "apiVersion=v1,kind=ConfigMap,name=a,uid=1,controller=true",
		"-owner", "apiVersion=v1,kind=ConfigMap,name=b,uid=2",
		"-param", "a=1,b=two",
		"-param", "b=three",
	}))

	require.Len(t, owners, 2)
	assert.Equal(t, "a", owners[0].Name)
	assert.Equal(t, "b", owners[1].Name)
	assert.Equal(t, "v1/ConfigMap a;v1/ConfigMap b", owners.String())

	assert.Equal(t, Params{"a": float64(1), "b": "three"}, params)
	assert.Equal(t, "a=1,b=three", params.String())

	assert.Error(t, set.Parse([]string{"-owner", "kind=ConfigMap"}))
}
