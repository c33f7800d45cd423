package repo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/foomo/topbar/menu"
	"github.com/foomo/topbar/pkg/metrics"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	json              = jsoniter.ConfigCompatibleWithStandardLibrary
	ErrUpdateRejected = errors.New("update rejected: queue full")
)

type updateResponse struct {
	repoRuntime int64
	err         error
}

func (r *Repo) PollRoutine(ctx context.Context) error {
	l := r.l.Named("routine.poll")
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			chanReponse := make(chan updateResponse, 1)
			select {
			case r.updateInProgressChannel <- chanReponse:
			case <-ctx.Done():
				return nil
			}
			response := <-chanReponse
			if response.err == nil {
				l.Info("update success", zap.String("revision", r.pollVersion))
			} else {
				l.Error("update failed", zap.Error(response.err))
			}
		}
	}
}

func (r *Repo) UpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.update")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case resChan := <-r.updateInProgressChannel:
			start := time.Now()
			l := l.With(zap.String("run_id", uuid.New().String()))

			l.Info("update started")

			updateCtx := context.WithoutCancel(ctx)
			repoRuntime, err := r.update(updateCtx)
			if err != nil {
				l.Error("update failed", zap.Error(err))
				metrics.UpdatesFailedCounter.WithLabelValues().Inc()
			} else {
				r.persist(updateCtx)
				r.markLoaded()
				r.notifyUpdate()
				l.Info("update success")
				metrics.UpdatesCompletedCounter.WithLabelValues().Inc()
			}

			resChan <- updateResponse{
				repoRuntime: repoRuntime,
				err:         err,
			}

			metrics.UpdateDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) markLoaded() {
	if r.loaded.CompareAndSwap(false, true) {
		r.l.Info("initial update success")
		if r.onLoaded != nil {
			r.onLoaded()
		}
	}
}

// notifyUpdate runs the callbacks whenever the served menus were replaced
func (r *Repo) notifyUpdate() {
	for _, fn := range r.onUpdate {
		fn()
	}
}

func (r *Repo) persist(ctx context.Context) {
	if err := r.history.Add(ctx, r.JSONBufferBytes()); err != nil {
		r.l.Error("Could not persist current repo in history", zap.Error(err))
		metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
		return
	}
	r.l.Debug("Successfully persisted current repo to history")
}

func buildDirectory(dirNode *menu.Node, directory map[int]*menu.Node) error {
	for _, key := range dirNode.Index {
		childNode, ok := dirNode.Nodes[key]
		if !ok {
			return errors.New("index entry " + key + " has no node")
		}
		if childNode.ID <= menu.RootID {
			return errors.New("invalid node id " + strconv.Itoa(childNode.ID) + " for " + key)
		}
		if existingNode, ok := directory[childNode.ID]; ok {
			return errors.New("duplicate node with id: " + strconv.Itoa(existingNode.ID))
		}
		directory[childNode.ID] = childNode
		if err := buildDirectory(childNode, directory); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) loadDocumentFromJSON() (*menu.Document, error) {
	doc := menu.NewDocument()
	if err := json.Unmarshal(r.JSONBufferBytes(), doc); err != nil {
		r.l.Error("Failed to deserialize document", zap.Error(err))
		return nil, errors.Wrap(err, "failed to deserialize document")
	}
	return doc, nil
}

func (r *Repo) loadDocument(doc *menu.Document) error {
	var (
		err          error
		newDirectory = newDirectory()
	)
	for id, object := range doc.Objects {
		newDirectory.Objects[id] = object
	}
	for name, node := range doc.Menus {
		if node == nil {
			err = multierr.Append(err, errors.New("location "+name+" has no menu"))
			continue
		}
		r.l.Debug("loading menu for location", zap.String("location", name))
		directory := map[int]*menu.Node{}
		if errLoad := buildDirectory(node, directory); errLoad != nil {
			err = multierr.Append(err, errors.Wrap(errLoad, "location "+name))
			continue
		}
		newDirectory.Locations[name] = &Location{
			Node:      node,
			Directory: directory,
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to load locations")
	}
	for name := range r.Directory().Locations {
		if _, ok := newDirectory.Locations[name]; !ok {
			r.l.Info("removing orphaned location", zap.String("location", name))
		}
	}
	r.SetDirectory(newDirectory)
	return nil
}

func (r *Repo) tryToRestoreCurrent(ctx context.Context) error {
	buffer := &bytes.Buffer{}
	err := r.history.GetCurrent(ctx, buffer)
	if err != nil {
		return err
	}
	r.SetJSONBuffer(buffer)
	if err := r.loadJSONBytes(); err != nil {
		return err
	}
	r.notifyUpdate()
	return nil
}

func (r *Repo) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create get repo request")
	}
	response, err := r.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to get repo")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return errors.Errorf("bad response code from repository %q want %d", response.Status, http.StatusOK)
	}

	buffer := &bytes.Buffer{}
	_, err = io.Copy(buffer, response.Body)
	if err != nil {
		return errors.Wrap(err, "failed to copy IO stream")
	}
	r.SetJSONBuffer(buffer)

	return nil
}

func (r *Repo) update(ctx context.Context) (repoRuntime int64, err error) {
	startTimeRepo := time.Now().UnixNano()

	repoURL := r.url
	if r.poll {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
		if err != nil {
			return repoRuntime, err
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return repoRuntime, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return repoRuntime, errors.New("could not poll latest repo download url - non 200 response")
		}
		responseBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return repoRuntime, errors.New("could not poll latest repo download url, could not read body")
		}
		repoURL = string(bytes.TrimSpace(responseBytes))
		if repoURL == r.pollVersion {
			r.l.Info(
				"repo is up to date",
				zap.String("pollVersion", r.pollVersion),
			)
			// already up to date
			return repoRuntime, nil
		}
		r.l.Info(
			"new repo poll version",
			zap.String("pollVersion", repoURL),
		)
	}

	err = r.get(ctx, repoURL)
	repoRuntime = time.Now().UnixNano() - startTimeRepo
	if err != nil {
		// we have no json to load - the repo server did not reply
		r.l.Debug("failed to load json", zap.Error(err))
		return repoRuntime, err
	}
	r.l.Debug("loading json", zap.String("server", repoURL), zap.Int("length", len(r.JSONBufferBytes())))
	doc, err := r.loadDocumentFromJSON()
	if err != nil {
		// could not load document from json
		return repoRuntime, err
	}
	err = r.loadDocument(doc)
	if err != nil {
		// repo failed to load locations
		return repoRuntime, err
	}
	if r.poll {
		r.pollVersion = repoURL
	}
	return repoRuntime, nil
}

// limit ressources and allow only one update request at once
func (r *Repo) tryUpdate(ctx context.Context) (repoRuntime int64, err error) {
	c := make(chan updateResponse, 1)
	select {
	case r.updateInProgressChannel <- c:
		r.l.Debug("update request added to queue")
		select {
		case ur := <-c:
			return ur.repoRuntime, ur.err
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	default:
		r.l.Info("update request rejected, another update is in progress")
		return 0, ErrUpdateRejected
	}
}

func (r *Repo) loadJSONBytes() error {
	doc, err := r.loadDocumentFromJSON()
	if err != nil {
		data := r.JSONBufferBytes()

		if len(data) > 10 {
			r.l.Debug("could not parse json",
				zap.String("jsonStart", string(data[:10])),
				zap.String("jsonEnd", string(data[len(data)-10:])),
			)
		}
		return err
	}

	return r.loadDocument(doc)
}
