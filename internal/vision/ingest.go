package vision

// Ingest stores an uploaded file as the session's current image and returns
// the request token that a following Classify call must carry. The session is
// created when sessionID is unknown; the returned id is the one in effect.
//
// No size or type validation happens here.
func (m *Manager) Ingest(sessionID, filename, contentType string, data []byte) (id string, token uint64) {
	src := EncodeImageSource(contentType, data)
	sess := m.sessions.Ensure(sessionID)
	sess.mu.Lock()
	sess.image = src
	sess.token++
	token = sess.token
	id = sess.id
	sess.mu.Unlock()

	m.log.Debug().Str("session", id).Str("file", filename).Int("bytes", len(data)).Uint64("token", token).Msg("image ingested")
	m.publish(Event{Name: EventImageIngested, SessionID: id, Fields: map[string]any{
		"file":  filename,
		"bytes": len(data),
		"mime":  src.MIME(),
		"token": token,
	}})
	return id, token
}

// EnsureSession returns the id of an existing session or of a newly created one.
func (m *Manager) EnsureSession(sessionID string) string {
	return m.sessions.Ensure(sessionID).id
}
