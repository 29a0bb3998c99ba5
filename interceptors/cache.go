// Package interceptors provides gRPC middleware for the blog platform's
// read APIs. The caching interceptor is the method-boundary counterpart of
// the service-layer caches: idempotent read RPCs can be served straight from
// a cache namespace without touching the handler.
package interceptors

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/karnwald/blogcache/cache"
)

// Cacheable reports whether the RPC identified by fullMethod (for example
// "/blog.ArticleReads/ListPublished") may be served from cache. Only
// side-effect-free read methods should qualify.
type Cacheable func(fullMethod string) bool

// CacheUnary returns a unary server interceptor that caches successful
// responses of cacheable methods, keyed by method plus a digest of the
// deterministically marshaled request. Responses are stored as a type-name
// envelope so a hit can be reconstructed through the protobuf type registry.
//
// The interceptor is strictly best-effort: non-proto payloads, marshal
// failures and undecodable cached envelopes all fall through to the handler,
// and handler errors are returned verbatim and never cached.
func CacheUnary(c cache.Cache, cacheable Cacheable) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if cacheable != nil && !cacheable(info.FullMethod) {
			return handler(ctx, req)
		}
		reqMsg, ok := req.(proto.Message)
		if !ok {
			return handler(ctx, req)
		}
		key, err := requestKey(info.FullMethod, reqMsg)
		if err != nil {
			return handler(ctx, req)
		}

		if raw, hit, _ := c.Get(ctx, key); hit {
			if msg, err := decodeEnvelope(raw); err == nil {
				return msg, nil
			}
		}

		resp, err := handler(ctx, req)
		if err != nil {
			return resp, err
		}
		if respMsg, ok := resp.(proto.Message); ok {
			if raw, err := encodeEnvelope(respMsg); err == nil {
				_ = c.Put(ctx, key, raw)
			}
		}
		return resp, nil
	}
}

func requestKey(fullMethod string, req proto.Message) (string, error) {
	raw, err := proto.MarshalOptions{Deterministic: true}.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return fullMethod + ":" + hex.EncodeToString(sum[:]), nil
}

// The envelope is the message's full type name, a zero byte, then the
// marshaled payload.
func encodeEnvelope(msg proto.Message) ([]byte, error) {
	payload, err := proto.Marshal(msg)
	if err != nil {
		return nil, err
	}
	name := []byte(msg.ProtoReflect().Descriptor().FullName())
	out := make([]byte, 0, len(name)+1+len(payload))
	out = append(out, name...)
	out = append(out, 0)
	out = append(out, payload...)
	return out, nil
}

func decodeEnvelope(raw []byte) (proto.Message, error) {
	i := bytes.IndexByte(raw, 0)
	if i < 0 {
		return nil, errors.New("interceptors: malformed cache envelope")
	}
	mt, err := protoregistry.GlobalTypes.FindMessageByName(protoreflect.FullName(raw[:i]))
	if err != nil {
		return nil, err
	}
	msg := mt.New().Interface()
	if err := proto.Unmarshal(raw[i+1:], msg); err != nil {
		return nil, err
	}
	return msg, nil
}
