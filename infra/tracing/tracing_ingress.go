package tracing

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// TracingIngress opens a server span per request, continuing the trace
// carried in the inbound headers when there is one.
func TracingIngress() gin.HandlerFunc {
	return func(c *gin.Context) {
		tracer := opentracing.GlobalTracer()
		carrier := opentracing.HTTPHeadersCarrier(c.Request.Header)
		parentCtx, _ := tracer.Extract(opentracing.HTTPHeaders, carrier)

		serverSpan := tracer.StartSpan(c.Request.Method+" "+c.FullPath(), ext.RPCServerOption(parentCtx))
		ext.HTTPMethod.Set(serverSpan, c.Request.Method)
		ext.HTTPUrl.Set(serverSpan, c.Request.RequestURI)
		defer serverSpan.Finish()

		c.Request = c.Request.WithContext(opentracing.ContextWithSpan(c.Request.Context(), serverSpan))

		c.Next()

		ext.HTTPStatusCode.Set(serverSpan, uint16(c.Writer.Status()))
		if c.Writer.Status() >= 500 {
			ext.Error.Set(serverSpan, true)
		}
	}
}
