package gate

// AddressAllowlist matches source addresses textually, exactly as the
// transport reports them.
type AddressAllowlist struct {
	set map[string]struct{}
}

func NewAddressAllowlist(addrs []string) AddressAllowlist {
	set := make(map[string]struct{}, len(addrs))
	for _, addr := range addrs {
		if addr == "" {
			continue
		}
		set[addr] = struct{}{}
	}
	return AddressAllowlist{set: set}
}

func (a AddressAllowlist) Contains(addr string) bool {
	_, ok := a.set[addr]
	return ok
}

type IDAllowlist struct {
	set map[uint64]struct{}
}

func NewIDAllowlist(ids []uint64) IDAllowlist {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return IDAllowlist{set: set}
}

// Allows reports whether the credential's identifier is allowlisted.
func (a IDAllowlist) Allows(cred Credential) bool {
	if !cred.IDValid {
		return false
	}
	_, ok := a.set[cred.ID]
	return ok
}
