package provider

// Caps is the detected capability set of a raw provider handle. A nil field
// means the handle does not support that capability. All vendor-specific
// shape branching lives here; callers only ever look at Caps.
type Caps struct {
	// Raw is the handle Detect was given, passed through untouched so it
	// can be reported back to the host application.
	Raw any

	Requester RequestSender
	Legacy    PayloadSender
	Enabler   Enabler
	Events    EventSource
	Vendor    Vendor
	Refresher AutoRefreshToggler
}

// Detect maps a raw provider handle onto the capability set. Returns nil
// when no handle is present.
func Detect(raw any) *Caps {
	if raw == nil {
		return nil
	}

	caps := &Caps{Raw: raw}
	if v, ok := raw.(RequestSender); ok {
		caps.Requester = v
	}
	if v, ok := raw.(PayloadSender); ok {
		caps.Legacy = v
	}
	if v, ok := raw.(Enabler); ok {
		caps.Enabler = v
	}
	if v, ok := raw.(EventSource); ok {
		caps.Events = v
	}
	if v, ok := raw.(Vendor); ok {
		caps.Vendor = v
	}
	if v, ok := raw.(AutoRefreshToggler); ok {
		caps.Refresher = v
	}
	return caps
}

// Flavor reports the wallet flavor, FlavorUnknown when the handle carries no
// vendor identity.
func (c *Caps) Flavor() Flavor {
	if c == nil || c.Vendor == nil {
		return FlavorUnknown
	}
	return c.Vendor.Flavor()
}
