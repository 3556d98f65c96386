// ABOUTME: People API operations for the reconciler
// ABOUTME: Lists connections and performs create/update/photo calls with etags
package sync

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/meishi/match"
	"github.com/harperreed/meishi/models"
)

// personFields is the projection requested for every listed connection. It
// must cover everything the key builder and update computer read.
const personFields = "names,emailAddresses,phoneNumbers,organizations,addresses,urls,biographies,metadata"

const maxPhotoEdge = 720

// People wraps the People API service with the operations the reconciler
// needs.
type People struct {
	service *people.Service
}

// NewPeople wraps an authenticated People API service.
func NewPeople(service *people.Service) *People {
	return &People{service: service}
}

// ListConnections fetches the caller's full contact list, following
// pagination to the end.
func (p *People) ListConnections(ctx context.Context) ([]*people.Person, error) {
	var connections []*people.Person
	pageToken := ""

	for {
		call := p.service.People.Connections.List("people/me").
			PageSize(500).
			PersonFields(personFields)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list connections: %w", err)
		}
		if response == nil {
			break
		}

		connections = append(connections, response.Connections...)

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return connections, nil
}

// CreateContact creates a new contact from a card record.
func (p *People) CreateContact(ctx context.Context, record models.CardRecord) (*people.Person, error) {
	body := match.PersonBody(record)
	created, err := p.service.People.CreateContact(body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return created, nil
}

// UpdateContact applies a computed patch to an existing contact using
// etag-based optimistic concurrency.
func (p *People) UpdateContact(ctx context.Context, resourceName string, updates *match.Updates, etag string) (*people.Person, error) {
	body := updates.Person()
	body.Etag = etag

	updated, err := p.service.People.UpdateContact(resourceName, body).
		UpdatePersonFields(updates.FieldMask()).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return updated, nil
}

// UpdateContactPhoto attaches the card image to the contact, downscaled to
// a 720px JPEG. A missing or undecodable image is a silent no-op.
func (p *People) UpdateContactPhoto(ctx context.Context, resourceName, imagePath string) (*people.Person, error) {
	if resourceName == "" || imagePath == "" {
		return nil, nil
	}

	photoBytes, err := encodePhoto(imagePath)
	if err != nil {
		return nil, nil
	}

	response, err := p.service.People.UpdateContactPhoto(resourceName, &people.UpdateContactPhotoRequest{
		PhotoBytes:   photoBytes,
		PersonFields: personFields,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update contact photo: %w", err)
	}
	if response == nil {
		return nil, nil
	}
	return response.Person, nil
}

// encodePhoto reads, downscales, and base64-encodes an image for the photo
// endpoint.
func encodePhoto(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxPhotoEdge || h > maxPhotoEdge {
		scale := float64(maxPhotoEdge) / float64(max(w, h))
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EtagFor extracts the optimistic-concurrency etag from a person, falling
// back to its first source metadata entry.
func EtagFor(person *people.Person) string {
	if person == nil {
		return ""
	}
	if person.Etag != "" {
		return person.Etag
	}
	if person.Metadata != nil {
		for _, source := range person.Metadata.Sources {
			if source != nil && source.Etag != "" {
				return source.Etag
			}
		}
	}
	return ""
}
