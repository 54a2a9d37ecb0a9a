// Package harness synthesizes the self-contained entry module that runs a
// lowered guest program inside the sandbox.
package harness

// EntryName is the exported zero-argument async function a guest program must
// define for the harness to invoke it.
const EntryName = "main"

// epilogue is the fixed harness appended after the lowered guest code. It is
// the only code allowed to decide the success/failure shape inside the
// sandbox: the missing-entry check returns synchronously, the entry function
// is invoked exactly once, a returned value becomes {success:true, result}
// and a thrown or rejected failure becomes {success:false, error}.
const epilogue = `
export default {
  fetch() {
    if (typeof ` + EntryName + ` !== "function") {
      return __workertRespond(400, {
        success: false,
        error: "guest program does not define a ` + EntryName + `() function",
      });
    }
    return Promise.resolve()
      .then(() => ` + EntryName + `())
      .then((value) => __workertRespond(200, {
        success: true,
        result: value === undefined ? null : value,
      }))
      .catch((err) => __workertRespond(500, {
        success: false,
        error: err instanceof Error ? err.message : String(err),
      }));
  },
};

function __workertRespond(status, body) {
  return new Response(JSON.stringify(body), {
    status,
    headers: { "content-type": "application/json" },
  });
}
`

// Wrap composes the lowered guest code and the harness into one entry module.
// Pure text composition: nothing is executed and the guest code is carried
// over verbatim, even if it defines conflicting top-level response logic.
func Wrap(lowered string) string {
	return lowered + epilogue
}
