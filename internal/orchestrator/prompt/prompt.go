// Package prompt renders the initial instruction text for a run.
// Building is a pure function of the event: same inputs, same text.
package prompt

import (
	"fmt"
	"strings"
)

// systemPreamble frames the oracle's role for every run.
const systemPreamble = "You are an expert autonomous IoT firmware engineer. " +
	"You can read, write, and deploy firmware using the provided tools. " +
	"Always generate complete, compilable Arduino C++ code when modifying logic."

// autonomousConcerns is the fixed checklist the oracle must weigh when no
// policy is supplied.
var autonomousConcerns = []string{
	"safety",
	"power consumption",
	"sensor reliability",
	"connectivity",
	"security",
	"performance",
}

// Builder renders initial instructions. It carries no state; the type
// exists so callers hold a named collaborator rather than a bare func.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders the instruction for the given event. A nil policy selects
// autonomous mode; a non-nil policy demands verbatim implementation of
// that policy.
func (b *Builder) Build(deviceID, eventDetails string, policy *string) string {
	if policy != nil {
		return b.buildPolicyDriven(deviceID, eventDetails, *policy)
	}
	return b.buildAutonomous(deviceID, eventDetails)
}

func (b *Builder) buildPolicyDriven(deviceID, eventDetails, policy string) string {
	return fmt.Sprintf(`%s

You have received a runtime event from device '%s'.
Event: '%s'
Policy: '%s'

Follow these steps:
1. Use 'get_device_state' to understand the device configuration.
2. Use 'read_firmware' to inspect the existing code.
3. Rewrite the *entire firmware* in C++/Arduino format to implement the policy exactly as stated.
4. Use 'write_firmware' to save the code.
5. Use 'trigger_deploy' to simulate deployment.
`, systemPreamble, deviceID, eventDetails, policy)
}

func (b *Builder) buildAutonomous(deviceID, eventDetails string) string {
	return fmt.Sprintf(`%s

You have received a runtime event from device '%s'.
Event: '%s'

No policy was supplied. Decide for yourself, as an expert, whether and how
the firmware should change. Weigh each of these concerns: %s.

Follow these steps:
1. Use 'get_device_state' to understand the device configuration.
2. Use 'read_firmware' to inspect the existing code.
3. Rewrite the *entire firmware* in C++/Arduino format implementing your expert judgment.
4. Use 'write_firmware' to save the code.
5. Use 'trigger_deploy' to simulate deployment.
`, systemPreamble, deviceID, eventDetails, strings.Join(autonomousConcerns, ", "))
}
