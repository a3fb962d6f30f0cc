package output

// Registry finds or creates the packet for an address tuple during one
// rebuild pass. Packets are kept in creation order so rebuilds of an
// unchanged tree realize senders deterministically.
type Registry struct {
	packets map[packetKey]*Packet
	order   []*Packet
}

// NewRegistry creates an empty registry for one rebuild pass.
func NewRegistry() *Registry {
	return &Registry{packets: make(map[packetKey]*Packet)}
}

// FindOrCreate returns the packet for the key, creating it on first
// reference. On a match the merged priority becomes the max of existing and
// incoming, and sequencing is enabled if either output enables it.
func (r *Registry) FindOrCreate(key packetKey, priority int, sequential bool) *Packet {
	if p, ok := r.packets[key]; ok {
		if priority > p.priority {
			p.priority = priority
		}
		p.sequential = p.sequential || sequential
		return p
	}
	p := newPacket(key, priority, sequential)
	r.packets[key] = p
	r.order = append(r.order, p)
	return p
}

// Packets returns every packet created during the pass, in creation order.
func (r *Registry) Packets() []*Packet {
	return r.order
}
