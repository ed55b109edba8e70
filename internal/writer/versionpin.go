package writer

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// requiredTerraformVersion pins the Terraform CLI range the generated
// modules target. Modules rely on optional() object attributes, so 1.3 is
// the real floor; ~> 1.8 tracks the range the generator is tested against.
const requiredTerraformVersion = "~> 1.8"

// VersionPin renders the terraform.tf version-pinning declaration for a
// provider. Unlike the other artifacts it is built deterministically with
// hclwrite — no generation backend involved.
func VersionPin(supplier, name, version string) (string, error) {
	v, err := goversion.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("invalid provider version %q: %w", version, err)
	}

	f := hclwrite.NewEmptyFile()
	tf := f.Body().AppendNewBlock("terraform", nil)
	tf.Body().SetAttributeValue("required_version", cty.StringVal(requiredTerraformVersion))

	providers := tf.Body().AppendNewBlock("required_providers", nil)
	providers.Body().SetAttributeValue(name, cty.ObjectVal(map[string]cty.Value{
		"source":  cty.StringVal(supplier + "/" + name),
		"version": cty.StringVal("~> " + v.String()),
	}))

	return string(f.Bytes()), nil
}
