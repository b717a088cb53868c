package server

// scrollPage is a tall document that streams its scroll position to /ws
const scrollPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Text Morph scroll</title>
<style>
  body { margin: 0; height: 300vh; font-family: sans-serif; background: #fff; }
  #status { position: fixed; top: 1em; left: 1em; color: #c00; }
</style>
</head>
<body>
<div id="status">connecting...</div>
<script>
  const status = document.getElementById('status');
  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  function send() {
    if (ws.readyState !== WebSocket.OPEN) return;
    const el = document.documentElement;
    ws.send(JSON.stringify({
      scrollTop: el.scrollTop,
      scrollHeight: el.scrollHeight,
      clientHeight: el.clientHeight,
    }));
  }
  ws.onopen = send;
  ws.onclose = () => { status.textContent = 'disconnected'; };
  ws.onmessage = (e) => {
    const r = JSON.parse(e.data);
    status.textContent = r.error ? r.error : 'mix ' + (r.mix === null ? '-' : r.mix.toFixed(3));
  };
  window.addEventListener('scroll', send);
  window.addEventListener('resize', send);
</script>
</body>
</html>
`
