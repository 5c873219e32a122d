package preview

// inspectorScript is injected at the end of every composed preview. It tags
// body descendants with stable data-zecrev-id attributes, highlights hovered
// elements while customize mode is on, and reports clicked elements through
// the bridge socket using the same envelopes the host broadcasts.
const inspectorScript = `
<script>
    let customizeModeEnabled = false;
    let lastHoveredElement = null;

    const bridgeURL = (location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/api/bridge';
    let bridge = null;

    function connectBridge() {
        bridge = new WebSocket(bridgeURL);
        bridge.addEventListener('message', (event) => {
            let msg;
            try { msg = JSON.parse(event.data); } catch { return; }
            if (msg.type === 'SET_CUSTOMIZE_MODE') {
                customizeModeEnabled = msg.payload;
                if (!customizeModeEnabled && lastHoveredElement) {
                    lastHoveredElement.style.outline = '';
                }
            }
        });
        bridge.addEventListener('close', () => {
            setTimeout(connectBridge, 1000);
        });
    }
    connectBridge();

    // Use a timeout to ensure the DOM is ready for ID assignment
    setTimeout(() => {
        let idCounter = 0;
        document.querySelectorAll('body *').forEach(el => {
            if (!el.hasAttribute('data-zecrev-id')) {
                el.setAttribute('data-zecrev-id', 'zecrev-' + idCounter++);
            }
        });
    }, 50);

    function debounce(func, wait) {
        let timeout;
        return function executedFunction(...args) {
            const later = () => {
                clearTimeout(timeout);
                func(...args);
            };
            clearTimeout(timeout);
            timeout = setTimeout(later, wait);
        };
    }

    const handleMouseOver = (e) => {
        if (!customizeModeEnabled) return;
        if (lastHoveredElement) {
            lastHoveredElement.style.outline = '';
        }
        const target = e.target;
        if (target && target.style) {
            target.style.outline = '2px solid #2563eb';
            target.style.outlineOffset = '-2px';
            lastHoveredElement = target;
        }
    };

    const handleMouseOut = (e) => {
        if (!customizeModeEnabled) return;
        const target = e.target;
        if (target && target.style) {
            target.style.outline = '';
        }
    };

    const handleClick = (e) => {
        if (!customizeModeEnabled) return;
        e.preventDefault();
        e.stopPropagation();
        const target = e.target;
        const style = window.getComputedStyle(target);
        const firstTextNode = Array.from(target.childNodes).find(node => node.nodeType === Node.TEXT_NODE);

        if (!bridge || bridge.readyState !== WebSocket.OPEN) return;
        bridge.send(JSON.stringify({
            type: 'INSPECT_ELEMENT_STYLE',
            payload: {
                id: target.getAttribute('data-zecrev-id'),
                tagName: target.tagName,
                textContent: firstTextNode ? firstTextNode.textContent.trim() : '',
                styles: {
                    backgroundColor: style.backgroundColor,
                    color: style.color,
                    padding: style.padding,
                    margin: style.margin,
                }
            }
        }));
    };

    setTimeout(() => {
        if (document.body) {
            document.body.addEventListener('mouseover', debounce(handleMouseOver, 50));
            document.body.addEventListener('mouseout', handleMouseOut);
            document.body.addEventListener('click', handleClick, true);
        }
    }, 100);
</script>
`
