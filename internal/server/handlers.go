package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blockgrid/pkg/engine"
	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/geom"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/group"
	"github.com/matzehuels/blockgrid/pkg/ident"
	"github.com/matzehuels/blockgrid/pkg/store"
)

// withSession resolves the session from the URL and runs fn with the
// session's engine mutex held.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*engine.Engine)) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := s.session(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %q does not exist", id))
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.eng)
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	eng, err := s.newEngine()
	if err != nil {
		writeError(w, err)
		return
	}
	id := s.addSession(eng)
	writeData(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list sessions"))
		return
	}
	writeData(w, http.StatusOK, map[string]any{"stored": ids})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(eng *engine.Engine) {
		writeData(w, http.StatusOK, eng.Snapshot())
	})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %q does not exist", id))
		return
	}
	writeData(w, http.StatusOK, map[string]string{"session_id": id})
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.withSession(w, r, func(eng *engine.Engine) {
		sess := &store.Session{ID: id, Document: eng.Snapshot(), CreatedAt: time.Now().UTC()}
		if prev, err := s.store.Get(r.Context(), id); err == nil {
			sess.Name = prev.Name
			sess.CreatedAt = prev.CreatedAt
		}
		if err := s.store.Put(r.Context(), sess); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "save session %q", id))
			return
		}
		writeData(w, http.StatusOK, map[string]string{"session_id": id})
	})
}

func (s *Server) handleLoadSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.withSession(w, r, func(eng *engine.Engine) {
		sess, err := s.store.Get(r.Context(), id)
		if stderrors.Is(err, store.ErrNotFound) {
			writeError(w, errors.New(errors.ErrCodeSessionNotFound, "no stored session %q", id))
			return
		}
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load session %q", id))
			return
		}
		if err := eng.Restore(sess.Document); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, eng.Snapshot())
	})
}

// =============================================================================
// Grid
// =============================================================================

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(eng *engine.Engine) {
		writeData(w, http.StatusOK, eng.Grid().Config())
	})
}

func (s *Server) handleSetGrid(w http.ResponseWriter, r *http.Request) {
	var cfg grid.Config
	if err := decode(r, &cfg); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(eng *engine.Engine) {
		if err := eng.Grid().SetConfig(cfg); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, eng.Grid().Config())
	})
}

// snapResponse extends a snap result with the preview signal.
type snapResponse struct {
	grid.SnapResult
	SnapPreview bool `json:"snap_preview"`
}

func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	var p geom.Point
	if err := decode(r, &p); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(eng *engine.Engine) {
		res, err := eng.Grid().Snap(p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, snapResponse{
			SnapResult:  res,
			SnapPreview: eng.Grid().ShouldSnap(p),
		})
	})
}

// =============================================================================
// Nodes
// =============================================================================

func (s *Server) handleSetNodes(w http.ResponseWriter, r *http.Request) {
	var nodes []group.Node
	if err := decode(r, &nodes); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(eng *engine.Engine) {
		eng.SetNodes(nodes)
		writeData(w, http.StatusOK, map[string]int{"count": len(nodes)})
	})
}

func (s *Server) handleUpsertNode(w http.ResponseWriter, r *http.Request) {
	var n group.Node
	if err := decode(r, &n); err != nil {
		writeError(w, err)
		return
	}
	n.ID = chi.URLParam(r, "nodeID")
	s.withSession(w, r, func(eng *engine.Engine) {
		if err := eng.UpsertNode(n); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, n)
	})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	s.withSession(w, r, func(eng *engine.Engine) {
		eng.RemoveNode(nodeID)
		writeData(w, http.StatusOK, map[string]string{"node_id": nodeID})
	})
}

// cloneRequest carries the source node data plus the caller-maintained
// identifier indexes.
type cloneRequest struct {
	Node      ident.NodeData `json:"node"`
	UsedIDs   []string       `json:"used_ids"`
	UsedNames []string       `json:"used_names"`
}

func (s *Server) handleClone(w http.ResponseWriter, r *http.Request) {
	var req cloneRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Node.ID = chi.URLParam(r, "nodeID")
	s.withSession(w, r, func(eng *engine.Engine) {
		out, err := eng.Clone(r.Context(), req.Node,
			ident.UsedSet(req.UsedIDs), ident.UsedSet(req.UsedNames))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusCreated, out)
	})
}

// =============================================================================
// Drag Lifecycle
// =============================================================================

// dragRequest is the payload for all drag lifecycle events.
type dragRequest struct {
	NodeID   string     `json:"node_id"`
	Position geom.Point `json:"position"`
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(eng *engine.Engine) {
		if err := eng.DragStart(r.Context(), req.NodeID, req.Position); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"node_id": req.NodeID})
	})
}

func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(eng *engine.Engine) {
		res, err := eng.Drag(r.Context(), req.NodeID, req.Position)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, res)
	})
}

func (s *Server) handleDragStop(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(eng *engine.Engine) {
		res, err := eng.DragStop(r.Context(), req.NodeID, req.Position)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, res)
	})
}

func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(eng *engine.Engine) {
		eng.CancelDrag(r.Context())
		writeData(w, http.StatusOK, map[string]bool{"cancelled": true})
	})
}

// =============================================================================
// Groups
// =============================================================================

// groupRequest is the payload for group creation.
type groupRequest struct {
	NodeIDs []string    `json:"node_ids"`
	Title   string      `json:"title,omitempty"`
	Style   group.Style `json:"style,omitempty"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(eng *engine.Engine) {
		g, err := eng.CreateGroup(r.Context(), group.CreateParams{
			NodeIDs: req.NodeIDs,
			Title:   req.Title,
			Style:   req.Style,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusCreated, g)
	})
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(eng *engine.Engine) {
		st := eng.Groups().State()
		writeData(w, http.StatusOK, map[string]any{
			"groups":   st.Groups,
			"selected": st.Selected,
		})
	})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	s.withSession(w, r, func(eng *engine.Engine) {
		if err := eng.DeleteGroup(r.Context(), groupID); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"group_id": groupID})
	})
}

func (s *Server) handleSetGroupTitle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	groupID := chi.URLParam(r, "groupID")
	s.withSession(w, r, func(eng *engine.Engine) {
		g, err := eng.Groups().SetTitle(groupID, req.Title)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, g)
	})
}

func (s *Server) handleAddGroupNodes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeIDs []string `json:"node_ids"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	groupID := chi.URLParam(r, "groupID")
	s.withSession(w, r, func(eng *engine.Engine) {
		g, err := eng.AddToGroup(groupID, req.NodeIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, g)
	})
}

func (s *Server) handleRemoveGroupNodes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeIDs []string `json:"node_ids"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	groupID := chi.URLParam(r, "groupID")
	s.withSession(w, r, func(eng *engine.Engine) {
		g, err := eng.RemoveFromGroup(groupID, req.NodeIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, g)
	})
}

func (s *Server) handleRefreshGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	s.withSession(w, r, func(eng *engine.Engine) {
		g, err := eng.RefreshGroupBounds(groupID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, g)
	})
}

func (s *Server) handleSelectGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	s.withSession(w, r, func(eng *engine.Engine) {
		if err := eng.Groups().Select(groupID); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, eng.Groups().State().Selected)
	})
}

func (s *Server) handleDeselectGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	s.withSession(w, r, func(eng *engine.Engine) {
		eng.Groups().Deselect(groupID)
		writeData(w, http.StatusOK, eng.Groups().State().Selected)
	})
}
