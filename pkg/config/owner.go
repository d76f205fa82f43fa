package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/ptr"
)

// ParseOwnerReference parses an owner reference in the form
// apiVersion=core.oam.dev/v1alpha1,kind=ApplicationConfiguration,name=app,uid=...,controller=true
func ParseOwnerReference(input string) (metav1.OwnerReference, error) {
	ref := metav1.OwnerReference{}
	for key, val := range ParseKeyValuePairs(input) {
		switch key {
		case "apiVersion":
			ref.APIVersion = val
		case "kind":
			ref.Kind = val
		case "name":
			ref.Name = val
		case "uid":
			ref.UID = types.UID(val)
		case "controller":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return ref, fmt.Errorf("invalid controller value %q: %w", val, err)
			}
			if b {
				ref.Controller = ptr.To(true)
				ref.BlockOwnerDeletion = ptr.To(true)
			}
		default:
			return ref, fmt.Errorf("unknown owner reference field %q", key)
		}
	}
	if ref.APIVersion == "" || ref.Kind == "" || ref.Name == "" || ref.UID == "" {
		return ref, fmt.Errorf("owner reference %q must set apiVersion, kind, name, and uid", input)
	}
	return ref, nil
}

// OwnerReferences implements flag.Value, accumulating one reference per occurrence of the flag.
type OwnerReferences []metav1.OwnerReference

func (o *OwnerReferences) String() string {
	if o == nil {
		return ""
	}
	strs := make([]string, len(*o))
	for i, ref := range *o {
		strs[i] = fmt.Sprintf("%s/%s %s", ref.APIVersion, ref.Kind, ref.Name)
	}
	return strings.Join(strs, ";")
}

func (o *OwnerReferences) Set(value string) error {
	ref, err := ParseOwnerReference(value)
	if err != nil {
		return err
	}
	*o = append(*o, ref)
	return nil
}

// Params implements flag.Value, merging the pairs of every occurrence of the flag.
type Params map[string]any

func (p Params) String() string {
	strs := make([]string, 0, len(p))
	for key, val := range p {
		strs = append(strs, fmt.Sprintf("%s=%v", key, val))
	}
	sort.Strings(strs)
	return strings.Join(strs, ",")
}

func (p Params) Set(value string) error {
	parsed, err := ParseParams(value)
	if err != nil {
		return err
	}
	for key, val := range parsed {
		p[key] = val
	}
	return nil
}
