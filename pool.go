package reactor

func (r *Reactor) getBufferPoolItem() (*[]byte, error) {
	var iface, err = r.bufferPool.Get()
	if err != nil {
		return nil, err
	}
	var buffer, ok = iface.(*[]byte)
	if !ok {
		return nil, ErrGetPoolBuffer
	}
	return buffer, nil
}
