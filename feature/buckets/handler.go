package buckets

import (
	"errors"
	"time"

	"s3hive/core/bucket"
	"s3hive/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Handler exposes the bucket facade over HTTP.
type Handler struct {
	bucket *bucket.Bucket
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(b *bucket.Bucket, logger *zap.Logger) *Handler {
	return &Handler{bucket: b, logger: logger}
}

// RegisterRoutes registers the bucket routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets")
	group.Get("/", h.HandleListBuckets)
	group.Put("/:bucket", h.HandleCreateBucket)
	group.Delete("/:bucket", h.HandleDeleteBucket)
	group.Get("/:bucket/objects", h.HandleListObjects)
	group.Delete("/:bucket/objects", h.HandleDeleteObject)
	group.Get("/:bucket/presign", h.HandlePresign)
}

// HandleListBuckets lists buckets.
// @Summary List Buckets
// @Description Lists the buckets visible to the configured credentials.
// @Tags buckets
// @Produce json
// @Param names query boolean false "Return bucket names only"
// @Success 200 {array} bucket.BucketDescriptor "Buckets"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /buckets [get]
func (h *Handler) HandleListBuckets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if c.QueryBool("names") {
		names, err := h.bucket.BucketNames(c.Context())
		if err != nil {
			return h.fail(c, l, "List buckets failed", err)
		}
		return c.JSON(names)
	}

	buckets, err := h.bucket.ListBuckets(c.Context())
	if err != nil {
		return h.fail(c, l, "List buckets failed", err)
	}
	return c.JSON(buckets)
}

// HandleCreateBucket creates a bucket.
// @Summary Create Bucket
// @Description Creates a bucket in the configured region with a canned ACL.
// @Tags buckets
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param acl query string false "Canned ACL (private, public-read, public-read-write)"
// @Success 201 {object} map[string]string "Created"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /buckets/{bucket} [put]
func (h *Handler) HandleCreateBucket(c *fiber.Ctx) error {
	name := c.Params("bucket")
	acl := c.Query("acl", bucket.ACLPrivate)
	l := logger.WithRayID(h.logger, c).With(zap.String("bucket", name))

	if err := h.bucket.CreateBucket(c.Context(), name, acl); err != nil {
		return h.fail(c, l, "Create bucket failed", err)
	}
	l.Info("Bucket created", zap.String("acl", acl))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "created", "bucket": name})
}

// HandleDeleteBucket deletes an empty bucket.
// @Summary Delete Bucket
// @Description Deletes an empty bucket.
// @Tags buckets
// @Param bucket path string true "Bucket name"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Bucket not empty"
// @Router /buckets/{bucket} [delete]
func (h *Handler) HandleDeleteBucket(c *fiber.Ctx) error {
	name := c.Params("bucket")
	l := logger.WithRayID(h.logger, c).With(zap.String("bucket", name))

	if err := h.bucket.DeleteBucket(c.Context(), name); err != nil {
		return h.fail(c, l, "Delete bucket failed", err)
	}
	l.Info("Bucket deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListObjects lists objects in a bucket.
// @Summary List Objects
// @Description Lists every object in the bucket.
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param keys query boolean false "Return object keys only"
// @Success 200 {array} bucket.ObjectDescriptor "Objects"
// @Failure 404 {object} map[string]string "No such bucket"
// @Router /buckets/{bucket}/objects [get]
func (h *Handler) HandleListObjects(c *fiber.Ctx) error {
	name := c.Params("bucket")
	l := logger.WithRayID(h.logger, c).With(zap.String("bucket", name))

	if c.QueryBool("keys") {
		keys, err := h.bucket.ObjectKeys(c.Context(), name)
		if err != nil {
			return h.fail(c, l, "List objects failed", err)
		}
		return c.JSON(keys)
	}

	objects, err := h.bucket.ListObjects(c.Context(), name)
	if err != nil {
		return h.fail(c, l, "List objects failed", err)
	}
	return c.JSON(objects)
}

// HandleDeleteObject deletes an object.
// @Summary Delete Object
// @Description Deletes the object with the given key.
// @Tags objects
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /buckets/{bucket}/objects [delete]
func (h *Handler) HandleDeleteObject(c *fiber.Ctx) error {
	name := c.Params("bucket")
	key := c.Query("key")
	l := logger.WithRayID(h.logger, c).With(zap.String("bucket", name), zap.String("key", key))

	if err := h.bucket.Delete(c.Context(), name, key); err != nil {
		return h.fail(c, l, "Delete object failed", err)
	}
	l.Info("Object deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePresign returns a presigned download URL.
// @Summary Presign Object
// @Description Generates a presigned GET URL for an object.
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Param expires query integer false "Validity in seconds (default 3600)"
// @Success 200 {object} map[string]string "Presigned URL"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /buckets/{bucket}/presign [get]
func (h *Handler) HandlePresign(c *fiber.Ctx) error {
	name := c.Params("bucket")
	key := c.Query("key")
	l := logger.WithRayID(h.logger, c).With(zap.String("bucket", name), zap.String("key", key))

	expires := c.QueryInt("expires", 0)
	if expires < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expires must not be negative"})
	}

	u, err := h.bucket.PresignedURL(c.Context(), name, key, time.Duration(expires)*time.Second)
	if err != nil {
		return h.fail(c, l, "Presign failed", err)
	}
	return c.JSON(fiber.Map{"url": u})
}

// fail writes err as the response. Storage service errors keep their HTTP
// status and code; input errors are 400; everything else is 500.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	switch {
	case errors.Is(err, bucket.ErrEmptyBucket),
		errors.Is(err, bucket.ErrEmptyKey),
		errors.Is(err, bucket.ErrUnsupportedACL):
		status = fiber.StatusBadRequest
	default:
		if resp := minio.ToErrorResponse(err); resp.StatusCode != 0 {
			status = resp.StatusCode
			body["code"] = resp.Code
		}
	}

	l.Error(msg, zap.Error(err), zap.Int("status", status))
	return c.Status(status).JSON(body)
}
