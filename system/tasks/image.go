// Package tasks holds the task images the boot task can start.
package tasks

import (
	"fmt"
	"sort"

	"asios/kernel"

	"github.com/Masterminds/semver/v3"
)

// Image is a startable task: an entry point plus the system-call ABI it was
// written against.
type Image struct {
	Name string
	// Requires is a semver constraint on kernel.ABIVersion ("" = any).
	Requires string
	// Slot pins the image to a task slot at boot; 0 means it is forked into
	// the first free slot.
	Slot  kernel.TaskID
	Entry kernel.Entry
	Arg   any
}

// Compatible checks the image against an ABI version.
func (img Image) Compatible(abi string) error {
	if img.Requires == "" {
		return nil
	}
	c, err := semver.NewConstraint(img.Requires)
	if err != nil {
		return fmt.Errorf("image %s: constraint %q: %w", img.Name, img.Requires, err)
	}
	v, err := semver.NewVersion(abi)
	if err != nil {
		return fmt.Errorf("image %s: abi %q: %w", img.Name, abi, err)
	}
	if ok, errs := c.Validate(v); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("image %s: %w", img.Name, errs[0])
		}
		return fmt.Errorf("image %s: abi %s does not satisfy %s", img.Name, abi, img.Requires)
	}
	return nil
}

// Registry maps image names to images.
type Registry struct {
	images map[string]Image
}

func NewRegistry(images ...Image) *Registry {
	r := &Registry{images: make(map[string]Image)}
	for _, img := range images {
		r.Register(img)
	}
	return r
}

// Register adds or replaces an image.
func (r *Registry) Register(img Image) {
	r.images[img.Name] = img
}

// Lookup returns the image called name, checked against the running ABI.
func (r *Registry) Lookup(name string) (Image, error) {
	img, ok := r.images[name]
	if !ok {
		return Image{}, fmt.Errorf("image %q not found", name)
	}
	if err := img.Compatible(kernel.ABIVersion); err != nil {
		return Image{}, err
	}
	return img, nil
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.images))
	for name := range r.images {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
