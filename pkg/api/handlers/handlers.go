package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/cbodonnell/rewind/pkg/queue"
	"github.com/cbodonnell/rewind/pkg/repositories"
	"github.com/cbodonnell/rewind/pkg/state"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// MaxCommandBodySize bounds the body of a command request
const MaxCommandBodySize = 4096

func HandleGetState(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := stateManager.Get(r.Context())
		if err != nil {
			log.Error("failed to get game view: %v", err)
			http.Error(w, "Failed to get game view", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// HandleCommand enqueues the command named in the path. Commands are
// applied by the game loop, so acceptance does not mean the command
// changed the game.
func HandleCommand(commandQueue queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["command"]
		decode, ok := Commands[name]
		if !ok {
			http.Error(w, "Unknown command", http.StatusNotFound)
			return
		}

		body, err := readBody(r, MaxCommandBodySize)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		if len(body) == 0 {
			body = []byte("{}")
		}

		command, err := decode(body)
		if err != nil {
			log.Debug("invalid %s command: %v", name, err)
			http.Error(w, "Invalid command: "+err.Error(), http.StatusBadRequest)
			return
		}

		if err := commandQueue.Enqueue(command); err != nil {
			log.Error("failed to enqueue %s command: %v", name, err)
			http.Error(w, "Command queue is full", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func HandleListCheckpoints(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID, err := uuid.Parse(mux.Vars(r)["runID"])
		if err != nil {
			http.Error(w, "Failed to parse runID", http.StatusBadRequest)
			return
		}

		checkpoints, err := repository.ListCheckpoints(r.Context(), runID)
		if err != nil {
			log.Error("failed to list checkpoints: %v", err)
			http.Error(w, "Failed to list checkpoints", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, checkpoints)
	}
}

// HandleGetLatestCheckpoint returns the decoded latest checkpoint of a run.
func HandleGetLatestCheckpoint(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID, err := uuid.Parse(mux.Vars(r)["runID"])
		if err != nil {
			http.Error(w, "Failed to parse runID", http.StatusBadRequest)
			return
		}

		checkpoint, err := repository.LoadLatestCheckpoint(r.Context(), runID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Checkpoint not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load checkpoint: %v", err)
			http.Error(w, "Failed to load checkpoint", http.StatusInternalServerError)
			return
		}

		snapshot, err := messages.DeserializeSnapshot(checkpoint.Data)
		if err != nil {
			log.Error("failed to decode checkpoint: %v", err)
			http.Error(w, "Failed to decode checkpoint", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"checkpoint": checkpoint,
			"snapshot":   snapshot,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
